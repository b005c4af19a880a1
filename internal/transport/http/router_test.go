package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"warbler/internal/handler"
	"warbler/internal/repository"
	"warbler/internal/service"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/web"
)

// newTestApp stands up the full application over the in-memory store, so
// these tests exercise the real router, middleware, handlers and templates.
func newTestApp(t *testing.T) (*httptest.Server, *repository.Memory) {
	t.Helper()

	store := repository.NewMemory()

	userService := service.NewUserService(store.Users(), store.Messages(), store.Follows(), store.Likes(), "/static/images/default-pic.png", "/static/images/warbler-hero.jpg")
	followService := service.NewFollowService(store.Follows(), store.Users())
	messageService := service.NewMessageService(store.Messages(), store.Follows(), nil)
	likeService := service.NewLikeService(store.Likes(), store.Messages())
	timelineService := service.NewTimelineService(store.Messages(), nil)

	renderer, err := web.New()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	sessions := middleware.NewSessions("test-secret")
	pages := handler.NewPages(renderer, sessions)

	router := NewRouter(RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userService, sessions, pages),
		HomeHandler:    handler.NewHomeHandler(timelineService, pages),
		UserHandler:    handler.NewUserHandler(userService, followService, messageService, likeService, sessions, pages),
		MessageHandler: handler.NewMessageHandler(messageService, likeService, sessions, pages),
		Sessions:       sessions,
		UserRepo:       store.Users(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

// newClient returns an HTTP client with a cookie jar, so sessions and
// flashes survive across requests and redirects like they do in a browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) string {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func get(t *testing.T, client *http.Client, target string) (int, string) {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func signup(t *testing.T, client *http.Client, baseURL, username string) string {
	t.Helper()
	return postForm(t, client, baseURL+"/signup", url.Values{
		"username": {username},
		"email":    {username + "@test.com"},
		"password": {"password"},
	})
}

func TestSignupAndLoginFlow(t *testing.T) {
	srv, store := newTestApp(t)
	client := newClient(t)

	// Signup lands on the home page, already logged in.
	body := signup(t, client, srv.URL, "alice")
	if !strings.Contains(body, "@alice") {
		t.Error("page after signup should show the logged-in user")
	}

	user, err := store.Users().GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user was not persisted: %v", err)
	}
	if user.PasswordHashed == "password" || !strings.HasPrefix(user.PasswordHashed, "$2a$") {
		t.Error("stored password is not a bcrypt hash")
	}

	// Logout, then log back in.
	if _, body := get(t, client, srv.URL+"/logout"); !strings.Contains(body, "successfully logged out") {
		t.Error("logout should confirm with a flash")
	}

	body = postForm(t, client, srv.URL+"/login", url.Values{
		"username": {"alice"},
		"password": {"password"},
	})
	if !strings.Contains(body, "Hello, alice!") {
		t.Error("login should greet with a flash")
	}
	if !strings.Contains(body, "@alice") {
		t.Error("page after login should show the logged-in user")
	}
}

func TestSignupRejectsEmptyPassword(t *testing.T) {
	srv, store := newTestApp(t)
	client := newClient(t)

	body := postForm(t, client, srv.URL+"/signup", url.Values{
		"username": {"alice"},
		"email":    {"alice@test.com"},
		"password": {""},
	})
	if !strings.Contains(body, "You have to enter a password.") {
		t.Error("expected the password flash on the re-rendered form")
	}
	if _, err := store.Users().GetByUsername(context.Background(), "alice"); err == nil {
		t.Error("no account should be created without a password")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv, _ := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "alice")
	get(t, client, srv.URL+"/logout")

	// Wrong password and unknown username produce the same flash.
	for _, form := range []url.Values{
		{"username": {"alice"}, "password": {"wrong"}},
		{"username": {"nobody"}, "password": {"password"}},
	} {
		body := postForm(t, client, srv.URL+"/login", form)
		if !strings.Contains(body, "Invalid credentials.") {
			t.Errorf("login with %v: expected the invalid credentials flash", form)
		}
	}
}

func TestAnonymousRequestsAreRejected(t *testing.T) {
	srv, store := newTestApp(t)

	// Seed a user with one message so the gated routes have real targets.
	ctx := context.Background()
	seeded := newClient(t)
	signup(t, seeded, srv.URL, "alice")
	postForm(t, seeded, srv.URL+"/messages/new", url.Values{"text": {"untouchable"}})
	alice, _ := store.Users().GetByUsername(ctx, "alice")
	msgs, _ := store.Messages().ByUser(ctx, alice.ID, 0)
	msg := msgs[0]

	paths := []struct {
		method string
		path   string
	}{
		{"POST", "/messages/new"},
		{"POST", fmt.Sprintf("/messages/%d/delete", msg.ID)},
		{"POST", fmt.Sprintf("/messages/%d/like", msg.ID)},
		{"GET", fmt.Sprintf("/messages/%d", msg.ID)},
		{"POST", fmt.Sprintf("/users/follow/%d", alice.ID)},
		{"GET", fmt.Sprintf("/users/%d/following", alice.ID)},
		{"GET", fmt.Sprintf("/users/%d/followers", alice.ID)},
		{"GET", fmt.Sprintf("/users/%d/likes", alice.ID)},
		{"GET", "/users/profile"},
	}

	for _, tt := range paths {
		// Fresh client per path: no cookies, fully anonymous.
		client := newClient(t)
		var body string
		if tt.method == "POST" {
			body = postForm(t, client, srv.URL+tt.path, url.Values{"text": {"sneaky"}})
		} else {
			_, body = get(t, client, srv.URL+tt.path)
		}
		if !strings.Contains(body, "Access unauthorized.") {
			t.Errorf("%s %s: expected the unauthorized flash", tt.method, tt.path)
		}
	}

	// Nothing was mutated by the rejected requests.
	if count, _ := store.Follows().CountFollowers(ctx, alice.ID); count != 0 {
		t.Error("anonymous follow attempt created an edge")
	}
	if count, _ := store.Messages().CountByUser(ctx, alice.ID); count != 1 {
		t.Errorf("message count = %d, want the 1 seeded message and no more", count)
	}
	if _, err := store.Messages().GetByID(ctx, msg.ID); err != nil {
		t.Error("anonymous delete attempt removed the message")
	}
	if count, _ := store.Likes().CountForMessage(ctx, msg.ID); count != 0 {
		t.Errorf("like count = %d, want 0 after anonymous toggle attempt", count)
	}
}

func TestStaleSessionIsRejected(t *testing.T) {
	srv, store := newTestApp(t)
	client := newClient(t)

	signup(t, client, srv.URL, "alice")
	alice, _ := store.Users().GetByUsername(context.Background(), "alice")

	// The account disappears while the cookie lives on.
	if err := store.Users().Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	body := postForm(t, client, srv.URL+"/messages/new", url.Values{"text": {"ghost"}})
	if !strings.Contains(body, "Access unauthorized.") {
		t.Error("a session for a deleted user should be rejected")
	}
}

func TestMessageLifecycle(t *testing.T) {
	srv, store := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "alice")
	alice, _ := store.Users().GetByUsername(context.Background(), "alice")

	// Create, then find it on the profile page.
	body := postForm(t, client, srv.URL+"/messages/new", url.Values{"text": {"hello warbler"}})
	if !strings.Contains(body, "hello warbler") {
		t.Error("new message should appear on the author's page")
	}

	msgs, err := store.Messages().ByUser(context.Background(), alice.ID, 0)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("messages = %v, err = %v; want exactly one", msgs, err)
	}
	msg := msgs[0]

	// The single-message page shows it.
	status, body := get(t, client, srv.URL+fmt.Sprintf("/messages/%d", msg.ID))
	if status != http.StatusOK || !strings.Contains(body, "hello warbler") {
		t.Errorf("message page status = %d", status)
	}

	// Unknown IDs are a 404.
	if status, _ := get(t, client, srv.URL+"/messages/99999"); status != http.StatusNotFound {
		t.Errorf("missing message status = %d, want %d", status, http.StatusNotFound)
	}

	// A different user cannot delete it.
	intruder := newClient(t)
	signup(t, intruder, srv.URL, "bob")
	body = postForm(t, intruder, srv.URL+fmt.Sprintf("/messages/%d/delete", msg.ID), nil)
	if !strings.Contains(body, "Access unauthorized.") {
		t.Error("non-owner delete should get the unauthorized flash")
	}
	if _, err := store.Messages().GetByID(context.Background(), msg.ID); err != nil {
		t.Error("message should survive a non-owner delete attempt")
	}

	// The owner can.
	postForm(t, client, srv.URL+fmt.Sprintf("/messages/%d/delete", msg.ID), nil)
	if _, err := store.Messages().GetByID(context.Background(), msg.ID); err == nil {
		t.Error("message should be gone after the owner deletes it")
	}
}

func TestLikeToggleOverHTTP(t *testing.T) {
	srv, store := newTestApp(t)
	ctx := context.Background()

	author := newClient(t)
	signup(t, author, srv.URL, "alice")
	postForm(t, author, srv.URL+"/messages/new", url.Values{"text": {"like me"}})

	alice, _ := store.Users().GetByUsername(ctx, "alice")
	msgs, _ := store.Messages().ByUser(ctx, alice.ID, 0)
	msg := msgs[0]

	fan := newClient(t)
	signup(t, fan, srv.URL, "bob")
	bob, _ := store.Users().GetByUsername(ctx, "bob")

	likePath := srv.URL + fmt.Sprintf("/messages/%d/like", msg.ID)

	postForm(t, fan, likePath, nil)
	if liked, _ := store.Likes().Exists(ctx, bob.ID, msg.ID); !liked {
		t.Error("first toggle should like the message")
	}

	postForm(t, fan, likePath, nil)
	if liked, _ := store.Likes().Exists(ctx, bob.ID, msg.ID); liked {
		t.Error("second toggle should remove the like")
	}

	// Authors cannot like their own messages.
	body := postForm(t, author, likePath, nil)
	if !strings.Contains(body, "You cannot like your own warble.") {
		t.Error("expected the own-message flash")
	}
	if count, _ := store.Likes().CountForMessage(ctx, msg.ID); count != 0 {
		t.Errorf("like count = %d, want 0", count)
	}
}

func TestFollowFlowAndProfileCounts(t *testing.T) {
	srv, store := newTestApp(t)
	ctx := context.Background()

	aliceClient := newClient(t)
	signup(t, aliceClient, srv.URL, "alice")
	postForm(t, aliceClient, srv.URL+"/messages/new", url.Values{"text": {"warble one"}})
	postForm(t, aliceClient, srv.URL+"/messages/new", url.Values{"text": {"warble two"}})
	alice, _ := store.Users().GetByUsername(ctx, "alice")

	bobClient := newClient(t)
	signup(t, bobClient, srv.URL, "bob")
	bob, _ := store.Users().GetByUsername(ctx, "bob")

	// Bob follows alice and lands on his following list.
	body := postForm(t, bobClient, srv.URL+fmt.Sprintf("/users/follow/%d", alice.ID), nil)
	if !strings.Contains(body, "@alice") {
		t.Error("following list should show alice")
	}

	// Alice's timeline stays hers; bob's now carries her messages.
	_, body = get(t, bobClient, srv.URL+"/")
	if !strings.Contains(body, "warble one") || !strings.Contains(body, "warble two") {
		t.Error("bob's timeline should include alice's messages")
	}

	// Alice's profile counts: two messages, one follower, nothing followed.
	_, body = get(t, bobClient, srv.URL+fmt.Sprintf("/users/%d", alice.ID))
	for _, stat := range []string{
		"Messages</a> <span>2</span>",
		"Following</a> <span>0</span>",
		"Followers</a> <span>1</span>",
		"Likes</a> <span>0</span>",
	} {
		if !strings.Contains(body, stat) {
			t.Errorf("alice's profile missing %q", stat)
		}
	}
	if !strings.Contains(body, "Unfollow") {
		t.Error("profile of a followed user should offer Unfollow")
	}

	// Bob's mirror the edge from the other side.
	_, body = get(t, bobClient, srv.URL+fmt.Sprintf("/users/%d", bob.ID))
	for _, stat := range []string{
		"Following</a> <span>1</span>",
		"Followers</a> <span>0</span>",
	} {
		if !strings.Contains(body, stat) {
			t.Errorf("bob's profile missing %q", stat)
		}
	}

	// Unfollow tears the edge down.
	postForm(t, bobClient, srv.URL+fmt.Sprintf("/users/stop-following/%d", alice.ID), nil)
	if following, _ := store.Follows().Exists(ctx, bob.ID, alice.ID); following {
		t.Error("edge should be gone after stop-following")
	}

	// Self-follow is rejected with a flash.
	body = postForm(t, bobClient, srv.URL+fmt.Sprintf("/users/follow/%d", bob.ID), nil)
	if !strings.Contains(body, "You cannot follow yourself.") {
		t.Error("expected the self-follow flash")
	}
}

func TestUserSearch(t *testing.T) {
	srv, _ := newTestApp(t)
	for _, name := range []string{"alice", "alicia", "bob"} {
		signup(t, newClient(t), srv.URL, name)
	}

	client := newClient(t)
	_, body := get(t, client, srv.URL+"/users?q=alic")
	if !strings.Contains(body, "@alice") || !strings.Contains(body, "@alicia") {
		t.Error("search should match both alice and alicia")
	}
	if strings.Contains(body, "@bob") {
		t.Error("search should not match bob")
	}
}

func TestProfileEditAndAccountDeletion(t *testing.T) {
	srv, store := newTestApp(t)
	ctx := context.Background()
	client := newClient(t)
	signup(t, client, srv.URL, "alice")
	alice, _ := store.Users().GetByUsername(ctx, "alice")

	// A wrong password rejects the whole edit.
	body := postForm(t, client, srv.URL+"/users/profile", url.Values{
		"bio":      {"should not stick"},
		"password": {"wrong"},
	})
	if !strings.Contains(body, "Access unauthorized.") {
		t.Error("edit with a wrong password should be unauthorized")
	}
	fresh, _ := store.Users().GetByID(ctx, alice.ID)
	if fresh.Bio != nil {
		t.Error("rejected edit must not change the profile")
	}

	// The right password applies it.
	postForm(t, client, srv.URL+"/users/profile", url.Values{
		"bio":      {"tree enthusiast"},
		"password": {"password"},
	})
	fresh, _ = store.Users().GetByID(ctx, alice.ID)
	if fresh.Bio == nil || *fresh.Bio != "tree enthusiast" {
		t.Error("edit with the right password should stick")
	}

	// Deleting the account removes the user and their data.
	body = postForm(t, client, srv.URL+"/users/delete", nil)
	if !strings.Contains(body, "Join Warbler today.") {
		t.Error("account deletion should land on the signup page")
	}
	if _, err := store.Users().GetByID(ctx, alice.ID); err == nil {
		t.Error("account should be gone")
	}

	if !strings.Contains(body, "Sign me up!") {
		t.Error("signup page should render its form")
	}
}
