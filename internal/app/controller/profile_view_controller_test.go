package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/ikkim/member-directory/internal/app/model"
	"github.com/ikkim/member-directory/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileViewController_Record(t *testing.T) {
	env := setupControllerTest(t)
	viewer := env.register(t, "Viewer", "viewer@example.com", model.StatusApproved)
	owner := env.register(t, "Owner", "owner@example.com", model.StatusApproved)
	token := memberToken(t, viewer)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{"records a view", RecordViewRequest{ViewedID: owner.ID}, http.StatusCreated},
		{"own profile", RecordViewRequest{ViewedID: viewer.ID}, http.StatusBadRequest},
		{"unknown member", RecordViewRequest{ViewedID: 9999}, http.StatusNotFound},
		{"missing viewed_mid", map[string]string{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.doJSON(http.MethodPost, "/api/profileview", token, tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&model.ProfileView{}).Where("viewed_mid = ?", owner.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProfileViewController_NotifiesOverWebSocket(t *testing.T) {
	env := setupControllerTest(t)
	viewer := env.register(t, "Viewer", "viewer@example.com", model.StatusApproved)
	owner := env.register(t, "Owner", "owner@example.com", model.StatusApproved)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go env.hub.Run(ctx)

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws?token=" + memberToken(t, owner)
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return env.hub.IsOnline(owner.ID) }, 2*time.Second, 10*time.Millisecond)

	w := env.doJSON(http.MethodPost, "/api/profileview", memberToken(t, viewer), RecordViewRequest{ViewedID: owner.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event service.ProfileViewEvent
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, service.EventProfileViewed, event.Type)
	assert.Equal(t, viewer.ID, event.ViewerID)
	assert.Equal(t, "Viewer K", event.ViewerName)
}

func TestProfileViewController_ConnectRequiresMember(t *testing.T) {
	env := setupControllerTest(t)

	w := env.doJSON(http.MethodGet, "/api/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodGet, "/api/ws", adminToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
