package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elearning_platform/internal/config"
	"elearning_platform/internal/domain"
	"elearning_platform/internal/registry"
	"elearning_platform/internal/repository/inmem"
	"elearning_platform/internal/service"
	"elearning_platform/internal/ws"
	"elearning_platform/pkg/jwt"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

const testSecret = "test-secret"

type wsEnv struct {
	server     *httptest.Server
	registry   registry.Registry
	dispatcher service.Dispatcher
	chat       *inmem.ChatRepository
	alice      *domain.User
	teacher    *domain.User
}

func newWSEnv(t *testing.T) *wsEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	alice := &domain.User{
		ID:        uuid.New(),
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Role:      domain.RoleStudent,
		IsActive:  true,
	}
	teacher := &domain.User{
		ID:       uuid.New(),
		Username: "prof",
		Role:     domain.RoleTeacher,
		IsActive: true,
	}

	users := inmem.NewUserRepository(alice, teacher)
	chat := inmem.NewChatRepository()
	notifications := inmem.NewNotificationRepository()
	courses := inmem.NewCourseRepository()
	reg := registry.NewInMemory()
	broadcaster := registry.NewLocalBroadcaster(reg, noopLogger{})
	dispatcher := service.NewDispatcher(notifications, chat, users, courses, broadcaster, noopLogger{})

	jwtCfg := config.JWTConfig{AccessSecret: testSecret, AccessTTL: time.Hour}
	authSvc := service.NewAuthService(users, jwtCfg, noopLogger{})

	h := NewWebSocketHandler(authSvc, dispatcher, reg, noopLogger{})

	router := gin.New()
	router.GET("/ws/chat/:room", h.HandleChat)
	router.GET("/ws/notifications", h.HandleNotifications)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &wsEnv{
		server:     server,
		registry:   reg,
		dispatcher: dispatcher,
		chat:       chat,
		alice:      alice,
		teacher:    teacher,
	}
}

func (e *wsEnv) wsURL(path string) string {
	return "ws" + strings.TrimPrefix(e.server.URL, "http") + path
}

func (e *wsEnv) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(e.wsURL(path), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (e *wsEnv) waitMembers(t *testing.T, groupKey string, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(e.registry.MembersOf(groupKey)) == want
	}, 2*time.Second, 10*time.Millisecond, "group %s never reached %d members", groupKey, want)
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	return data
}

func TestChatEchoResolvesFullName(t *testing.T) {
	env := newWSEnv(t)
	conn := env.dial(t, "/ws/chat/5")
	env.waitMembers(t, registry.ChatGroup("5"), 1)

	require.NoError(t, conn.WriteJSON(ws.ChatInbound{Message: "hi", Username: "alice"}))

	var out ws.ChatOutbound
	require.NoError(t, json.Unmarshal(readFrame(t, conn), &out))
	assert.Equal(t, "hi", out.Message)
	assert.Equal(t, "alice", out.Username)
	assert.Equal(t, "Alice Liddell", out.FullName)

	_, err := time.Parse(time.RFC3339, out.Timestamp)
	assert.NoError(t, err)
}

func TestChatBroadcastReachesAllRoomSessions(t *testing.T) {
	env := newWSEnv(t)
	connA := env.dial(t, "/ws/chat/5")
	connB := env.dial(t, "/ws/chat/5")
	env.waitMembers(t, registry.ChatGroup("5"), 2)

	require.NoError(t, connA.WriteJSON(ws.ChatInbound{Message: "hello room", Username: "alice"}))

	var outA, outB ws.ChatOutbound
	require.NoError(t, json.Unmarshal(readFrame(t, connA), &outA))
	require.NoError(t, json.Unmarshal(readFrame(t, connB), &outB))

	assert.Equal(t, outA, outB, "both sessions get identical content and timestamp")
	assert.Equal(t, "hello room", outA.Message)
}

func TestDisconnectedSessionIsSkipped(t *testing.T) {
	env := newWSEnv(t)
	connA := env.dial(t, "/ws/chat/5")
	connB := env.dial(t, "/ws/chat/5")
	env.waitMembers(t, registry.ChatGroup("5"), 2)

	connB.Close()
	env.waitMembers(t, registry.ChatGroup("5"), 1)

	err := env.dispatcher.Publish(context.Background(), domain.ChatPosted{
		RoomName: "5",
		Username: "alice",
		Content:  "still here",
	})
	require.NoError(t, err)

	var out ws.ChatOutbound
	require.NoError(t, json.Unmarshal(readFrame(t, connA), &out))
	assert.Equal(t, "still here", out.Message)
}

func TestMalformedFrameIsDroppedConnectionSurvives(t *testing.T) {
	env := newWSEnv(t)
	conn := env.dial(t, "/ws/chat/5")
	env.waitMembers(t, registry.ChatGroup("5"), 1)

	// кадр без username: события нет, соединение живет
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"hi"}`)))
	require.NoError(t, conn.WriteJSON(ws.ChatInbound{Message: "ok", Username: "alice"}))

	var out ws.ChatOutbound
	require.NoError(t, json.Unmarshal(readFrame(t, conn), &out))
	assert.Equal(t, "ok", out.Message)
}

func TestNotificationSocketRejectsAnonymous(t *testing.T) {
	env := newWSEnv(t)
	conn := env.dial(t, "/ws/notifications")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)

	// аноним ни в одну группу не вступил
	assert.Empty(t, env.registry.MembersOf(registry.NotifyGroup(env.teacher.ID)))
}

func TestNotificationSocketReceivesPush(t *testing.T) {
	env := newWSEnv(t)

	token, err := jwt.GenerateAccessToken(env.teacher.ID, env.teacher.Username, env.teacher.Role, testSecret, time.Hour)
	require.NoError(t, err)

	conn := env.dial(t, "/ws/notifications?token="+token)
	env.waitMembers(t, registry.NotifyGroup(env.teacher.ID), 1)

	err = env.dispatcher.Publish(context.Background(), domain.EnrollmentCreated{
		StudentID:   env.alice.ID,
		StudentName: env.alice.FullName(),
		CourseID:    uuid.New(),
		CourseTitle: "Algorithms",
		TeacherID:   env.teacher.ID,
	})
	require.NoError(t, err)

	var out ws.NotificationOutbound
	require.NoError(t, json.Unmarshal(readFrame(t, conn), &out))
	assert.Equal(t, "enrollment", out.Type)
	assert.Equal(t, "Alice Liddell has enrolled in Algorithms", out.Message)
}

func TestNotificationSocketRejectsInvalidToken(t *testing.T) {
	env := newWSEnv(t)
	conn := env.dial(t, "/ws/notifications?token=garbage")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()

	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
}
