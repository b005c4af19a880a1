package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"warbler/internal/model"
	"warbler/internal/repository"
)

// UserService handles signup, authentication and user queries.
type UserService struct {
	repo         repository.UserRepository
	messageRepo  repository.MessageRepository
	followRepo   repository.FollowRepository
	likeRepo     repository.LikeRepository
	defaultImage string
	defaultHero  string
}

func NewUserService(
	repo repository.UserRepository,
	messageRepo repository.MessageRepository,
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	defaultImage, defaultHero string,
) *UserService {
	return &UserService{
		repo:         repo,
		messageRepo:  messageRepo,
		followRepo:   followRepo,
		likeRepo:     likeRepo,
		defaultImage: defaultImage,
		defaultHero:  defaultHero,
	}
}

// Signup creates a new account. An empty password is rejected here, before
// any storage call; everything else (missing username or email, duplicates)
// is deferred to the database constraints and surfaced from repo.Create as
// model.ErrUsernameTaken / model.ErrEmailTaken.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if strings.TrimSpace(req.Password) == "" {
		return nil, model.ErrPasswordRequired
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = s.defaultImage
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
		ImageURL:       imageURL,
		HeaderImageURL: s.defaultHero,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Bad credentials are a
// (nil, nil) result, not an error: an unknown username and a wrong password
// are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, nil
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(password)) != nil {
		return nil, nil
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Search finds users whose username contains q; an empty q lists everyone.
func (s *UserService) Search(ctx context.Context, q string, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.Search(ctx, q, limit)
}

// Profile assembles a user and the four counts shown on the profile page.
// Counts are live queries over the edge sets, never cached.
func (s *UserService) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	messageCount, err := s.messageRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	followerCount, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.likeRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.Profile{
		User:           user,
		MessageCount:   messageCount,
		FollowingCount: followingCount,
		FollowerCount:  followerCount,
		LikeCount:      likeCount,
	}, nil
}

// UpdateProfile applies profile edits after re-verifying the user's password.
// A wrong password yields (nil, nil), mirroring Authenticate. Empty fields
// mean "leave unchanged"; clearing a set bio or location is not supported
// through this operation.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd *model.ProfileUpdate) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(upd.Password)) != nil {
		return nil, nil
	}

	if upd.Username != "" {
		user.Username = upd.Username
	}
	if upd.Email != "" {
		user.Email = upd.Email
	}
	if upd.ImageURL != "" {
		user.ImageURL = upd.ImageURL
	}
	if upd.HeaderImageURL != "" {
		user.HeaderImageURL = upd.HeaderImageURL
	}
	if upd.Bio != "" {
		bio := upd.Bio
		user.Bio = &bio
	}
	if upd.Location != "" {
		location := upd.Location
		user.Location = &location
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the account; messages, likes and follow edges cascade.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}
