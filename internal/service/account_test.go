package service

import (
	"context"
	"net/http"
	"silkrhyme/internal/auth"
	"silkrhyme/internal/client"
	"silkrhyme/internal/config"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/repository"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSessionStore(t *testing.T) *auth.Store {
	t.Helper()
	db, err := client.InitDBClient("sqlite://file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	return auth.NewStore(repository.NewSessionRepository(db))
}

const loginBody = `{"status_code":0,"msg":"ok","data":{"user":{"id":42,"email":"user@example.com","nickname":"丝韵"},"token":"upstream-token"}}`

func TestAccountService_LoginStoresSession(t *testing.T) {
	fake := newFakeDujiao(map[string]dujiaoReply{
		"POST /api/v1/auth/login": {body: loginBody},
		"GET /api/v1/me":          {body: `{"status_code":0,"msg":"ok","data":{"id":42,"email":"user@example.com","nickname":"丝韵"}}`},
	})
	store := newSessionStore(t)
	svc := NewAccountService(newDujiaoClient(t, fake), store, zap.NewNop())
	ctx := context.Background()

	session, user, err := svc.Login(ctx, &dto.LoginRequest{Email: " user@example.com ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "丝韵", user.Nickname)
	assert.Equal(t, "upstream-token", session.Token)

	var body map[string]string
	fake.lastBody(t, "POST /api/v1/auth/login", &body)
	assert.Equal(t, "user@example.com", body["email"])

	loaded, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "upstream-token", loaded.Token)

	profile, err := svc.Me(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "Bearer upstream-token", fake.authHeader("GET /api/v1/me"))

	require.NoError(t, svc.Logout(ctx, loaded))
	loaded, err = store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAccountService_RegisterRequiresAgreement(t *testing.T) {
	fake := newFakeDujiao(map[string]dujiaoReply{"POST /api/v1/auth/register": {body: loginBody}})
	svc := NewAccountService(newDujiaoClient(t, fake), newSessionStore(t), zap.NewNop())

	_, _, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "user@example.com", Password: "pw", Code: "123456"})
	requireAppError(t, err, http.StatusBadRequest, "需要先同意服务条款才能注册")
	assert.Zero(t, fake.count("POST /api/v1/auth/register"))

	session, _, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "user@example.com", Password: "pw", Code: "123456", Agreement: true})
	require.NoError(t, err)
	assert.True(t, session.Authenticated())

	var body map[string]any
	fake.lastBody(t, "POST /api/v1/auth/register", &body)
	assert.Equal(t, "123456", body["code"])
	assert.Equal(t, true, body["agreement_accepted"])
}

func TestAccountService_SendVerifyCode(t *testing.T) {
	fake := newFakeDujiao(map[string]dujiaoReply{"POST /api/v1/auth/send-verify-code": {body: `{"status_code":0,"msg":"ok"}`}})
	svc := NewAccountService(newDujiaoClient(t, fake), newSessionStore(t), zap.NewNop())

	err := svc.SendVerifyCode(context.Background(), " ")
	requireAppError(t, err, http.StatusBadRequest, "请填写注册邮箱")

	require.NoError(t, svc.SendVerifyCode(context.Background(), "user@example.com"))
	var body map[string]string
	fake.lastBody(t, "POST /api/v1/auth/send-verify-code", &body)
	assert.Equal(t, map[string]string{"email": "user@example.com", "purpose": "register"}, body)
}

func TestAccountService_RequiresSession(t *testing.T) {
	fake := newFakeDujiao(nil)
	svc := NewAccountService(newDujiaoClient(t, fake), newSessionStore(t), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Me(ctx, nil)
	requireAppError(t, err, http.StatusUnauthorized, "请先登录")
	_, err = svc.Orders(ctx, &auth.Session{ID: "x"})
	requireAppError(t, err, http.StatusUnauthorized, "请先登录")
	_, err = svc.OrderByNo(ctx, nil, "DJ1")
	requireAppError(t, err, http.StatusUnauthorized, "请先登录")
	assert.Zero(t, fake.count("GET /api/v1/me"))
}

func TestAccountService_RejectedTokenClearsSession(t *testing.T) {
	fake := newFakeDujiao(map[string]dujiaoReply{
		"GET /api/v1/me": {status: http.StatusUnauthorized, body: `{"status_code":401,"msg":"token expired"}`},
	})
	store := newSessionStore(t)
	svc := NewAccountService(newDujiaoClient(t, fake), store, zap.NewNop())
	ctx := context.Background()

	session, err := store.Save(ctx, "stale-token", "user@example.com")
	require.NoError(t, err)

	_, err = svc.Me(ctx, session)
	requireAppError(t, err, http.StatusUnauthorized, "登录已过期，请重新登录")

	loaded, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAccountService_Orders(t *testing.T) {
	fake := newFakeDujiao(map[string]dujiaoReply{
		"GET /api/v1/orders": {body: `{"status_code":0,"msg":"ok","data":[
			{"id":1,"order_no":"DJ1","status":"paid","currency":"CNY","total_amount":"88.00","items":[]},
			{"id":2,"order_no":"DJ2","status":"refunding","currency":"CNY","total_amount":"10.00","items":[]}]}`},
		"GET /api/v1/orders/by-order-no/DJ1": {body: `{"status_code":0,"msg":"ok","data":{"id":1,"order_no":"DJ1","status":"delivered"}}`},
	})
	store := newSessionStore(t)
	svc := NewAccountService(newDujiaoClient(t, fake), store, zap.NewNop())
	ctx := context.Background()

	session, err := store.Save(ctx, "upstream-token", "user@example.com")
	require.NoError(t, err)

	orders, err := svc.Orders(ctx, session)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "已支付", orders[0].StatusLabel)
	assert.Equal(t, "refunding", orders[1].StatusLabel)

	order, err := svc.OrderByNo(ctx, session, "DJ1")
	require.NoError(t, err)
	assert.Equal(t, "已交付", order.StatusLabel)

	_, err = svc.OrderByNo(ctx, session, "DJ404")
	requireAppError(t, err, http.StatusInternalServerError, "not found")
	loaded, err := store.Load(ctx, session.ID)
	require.NoError(t, err)
	assert.NotNil(t, loaded, "a missing order must not end the session")
}

func TestAccountService_NotConfigured(t *testing.T) {
	svc := NewAccountService(client.NewDujiaoClient(&config.Dujiao{}), newSessionStore(t), zap.NewNop())

	_, _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "a", Password: "b"})
	requireAppError(t, err, http.StatusInternalServerError, "服务端未配置商城 API 地址")
}
