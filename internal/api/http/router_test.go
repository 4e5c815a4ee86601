package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/admin"
	"github.com/quickstop/cafebot/internal/api/http/handlers"
	"github.com/quickstop/cafebot/internal/auth"
	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/dialogue"
	"github.com/quickstop/cafebot/internal/events"
	"github.com/quickstop/cafebot/internal/notify"
	"github.com/quickstop/cafebot/internal/observability"
	"github.com/quickstop/cafebot/internal/service"
	"github.com/quickstop/cafebot/internal/storage"
)

const testAdminKey = "test-secret"

type nullSender struct{}

func (nullSender) Send(context.Context, string, string) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *storage.Memory) {
	t.Helper()
	logger := zap.NewNop()
	repo := storage.NewMemory()
	sender := nullSender{}
	dispatcher := events.NewInMemoryDispatcher()
	notifier := notify.NewNotifier(sender, []string{"2348057703948"}, logger)
	service.NewNotificationService(dispatcher, notifier, logger).RegisterHandlers()

	engine := dialogue.NewEngine(dialogue.Dependencies{
		Sender:      sender,
		Dispatcher:  dispatcher,
		Logger:      logger,
		AgentPolicy: config.AgentPolicyRelay,
	})
	intake := service.NewIntakeService(service.IntakeDependencies{
		Repo:        repo,
		Engine:      engine,
		Interpreter: admin.NewInterpreter(sender, dispatcher, logger),
		Sender:      sender,
		Staff:       []string{"2348057703948"},
		Logger:      logger,
	})
	adminService := service.NewAdminService(repo, sender, dispatcher, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Webhook:          handlers.NewWebhookHandler(intake),
		Admin:            handlers.NewAdminHandler(adminService),
		Health:           handlers.NewHealthHandler("cafebot", "test", metrics),
		SecretMiddleware: auth.NewSecretMiddleware(testAdminKey),
	})
	return app, repo
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string, withKey bool) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withKey {
		req.Header.Set("X-Admin-Key", testAdminKey)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestWebhookAlwaysAnswersOK(t *testing.T) {
	app, _ := newTestApp(t)

	for _, body := range []string{
		`{"text":"hi","from":"2348011112222@s.whatsapp.net"}`,
		`{"event":"status_update"}`,
		`not json at all`,
		``,
	} {
		resp := doRequest(t, app, fiber.MethodPost, "/webhook", body, false)
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("body %q: expected 200, got %d", body, resp.StatusCode)
		}
	}
}

func TestWebhookPersistsSession(t *testing.T) {
	app, repo := newTestApp(t)

	doRequest(t, app, fiber.MethodPost, "/webhook", `{"text":"hi","from":"2348011112222"}`, false)

	store, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Sessions["2348011112222"]; !ok {
		t.Errorf("expected session created, got %v", store.Sessions)
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	app, _ := newTestApp(t)

	routes := []struct {
		method string
		target string
		body   string
	}{
		{fiber.MethodGet, "/queue", ""},
		{fiber.MethodPost, "/take", `{"ticket_id":1,"staff_label":"desk"}`},
		{fiber.MethodPost, "/done", `{"ticket_id":1}`},
		{fiber.MethodPost, "/verify-payment", `{"ticket_id":1}`},
		{fiber.MethodGet, "/metrics", ""},
	}
	for _, route := range routes {
		resp := doRequest(t, app, route.method, route.target, route.body, false)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("%s %s without key: expected 401, got %d", route.method, route.target, resp.StatusCode)
		}
	}
}

func TestAdminKeyViaQueryParam(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodGet, "/queue?key="+testAdminKey, "", false)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAdminQueueListsWaitingPositions(t *testing.T) {
	app, _ := newTestApp(t)

	doRequest(t, app, fiber.MethodPost, "/webhook", `{"text":"8","from":"2348011112222"}`, false)
	doRequest(t, app, fiber.MethodPost, "/webhook", `{"text":"8","from":"2348033334444"}`, false)

	resp := doRequest(t, app, fiber.MethodGet, "/queue", "", true)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Data []struct {
			ID            int    `json:"id"`
			Status        string `json:"status"`
			QueuePosition int    `json:"queue_position"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(body.Data))
	}
	for i, item := range body.Data {
		if item.QueuePosition != i+1 {
			t.Errorf("ticket %d: expected position %d, got %d", item.ID, i+1, item.QueuePosition)
		}
	}
}

func TestAdminDoneUnknownTicket(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodPost, "/done", `{"ticket_id":42}`, true)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAdminTakeValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, fiber.MethodPost, "/take", `{"ticket_id":0,"staff_label":""}`, true)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAdminDoneClosesTicket(t *testing.T) {
	app, repo := newTestApp(t)

	doRequest(t, app, fiber.MethodPost, "/webhook", `{"text":"8","from":"2348011112222"}`, false)

	resp := doRequest(t, app, fiber.MethodPost, "/done", `{"ticket_id":1}`, true)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	store, err := repo.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	ticket := store.Tickets[0]
	if ticket.Status != "done" || ticket.ClosedAt == nil {
		t.Errorf("expected closed ticket, got %+v", ticket)
	}
}
