package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-frontdesk/hub"
	"github.com/yeremiapane/restaurant-frontdesk/models"
)

func TestFloorWebSocket(t *testing.T) {
	s := setupTestServer(t)
	s.createUser(t, "waiter", models.RoleWaiter, false)
	table := s.createTable(t, "W1")
	token := s.login(t, "waiter").AccessToken

	srv := httptest.NewServer(s.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bogus", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	w, _ := s.do(t, "POST", "/tables/"+itoa(table.ID)+"/reserve/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Event string       `json:"event"`
		Data  models.Table `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, hub.EventTableUpdate, msg.Event)
	assert.Equal(t, table.ID, msg.Data.ID)
	assert.Equal(t, models.TableReserved, msg.Data.Status)
}
