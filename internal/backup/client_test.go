package backup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// newBackupServer serves the backup API from an in-memory Service.
func newBackupServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewService(NewLocalStorage(), zaptest.NewLogger(t))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nick := strings.TrimPrefix(r.URL.Path, "/api/playerData/")
		switch r.Method {
		case http.MethodPost:
			var data PlayerData
			if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
				writeEnvelope(w, http.StatusBadRequest, envelope{ErrorCode: "INVALID_DATA", Message: err.Error()})
				return
			}
			saved, err := svc.Save(r.Context(), nick, &data)
			if err != nil {
				writeEnvelope(w, http.StatusBadRequest, envelope{ErrorCode: "VALIDATION_FAILED", Message: err.Error()})
				return
			}
			writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: saved, Message: "Player data saved successfully"})
		case http.MethodGet:
			data, err := svc.Load(r.Context(), nick)
			if err != nil {
				writeEnvelope(w, http.StatusNotFound, envelope{ErrorCode: "NOT_FOUND", Message: "Player data not found"})
				return
			}
			writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: data})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c := NewClient(ClientOptions{BaseURL: baseURL, Logger: zaptest.NewLogger(t)})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_SaveThenLoad(t *testing.T) {
	srv := newBackupServer(t)
	client := newTestClient(t, srv.URL)
	ctx := context.Background()

	data, err := NewPlayerData("uuid-1", "Steve", []InventoryItem{
		{TypeID: "minecraft:diamond_sword", Amount: 1, Slot: 0},
		{TypeID: "minecraft:bread", Amount: 12, Slot: 5},
	})
	require.NoError(t, err)

	saved := client.Save(ctx, "Steve", data)
	require.True(t, saved.Success, saved.Message)
	assert.Equal(t, "Player data saved successfully", saved.Message)

	loaded := client.Load(ctx, "Steve")
	require.True(t, loaded.Success, loaded.Message)
	require.NotNil(t, loaded.Data)
	assert.Equal(t, data.Inventory, loaded.Data.Inventory)
}

func TestClient_LoadNotFound(t *testing.T) {
	srv := newBackupServer(t)
	client := newTestClient(t, srv.URL)

	res := client.Load(context.Background(), "Nobody")

	assert.False(t, res.Success)
	assert.Equal(t, CodeNotFound, res.ErrorCode)
}

func TestClient_LocalValidation(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	ctx := context.Background()

	res := client.Save(ctx, "  ", &PlayerData{ID: "x", Nick: "y"})
	assert.Equal(t, CodeInvalidKey, res.ErrorCode)

	res = client.Save(ctx, "Steve", &PlayerData{ID: "x", Nick: "Steve", Inventory: []InventoryItem{{TypeID: "", Amount: 1}}})
	assert.Equal(t, CodeInvalidData, res.ErrorCode)
	assert.Contains(t, res.Message, "item 0")

	res = client.Load(ctx, "")
	assert.Equal(t, CodeInvalidKey, res.ErrorCode)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url)
	data, _ := NewPlayerData("uuid-1", "Steve", nil)

	res := client.Save(context.Background(), "Steve", data)

	assert.False(t, res.Success)
	assert.Equal(t, CodeNetworkError, res.ErrorCode)
}

func TestClient_InvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, envelope{Success: true})
	}))
	defer srv.Close()
	client := newTestClient(t, srv.URL)

	res := client.Load(context.Background(), "Steve")

	assert.Equal(t, CodeInvalidResponse, res.ErrorCode)
}

func TestClient_InvalidDataReceived(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, envelope{Success: true, Data: &PlayerData{ID: "x", Nick: "Steve", Inventory: []InventoryItem{{TypeID: "a", Amount: -4}}}})
	}))
	defer srv.Close()
	client := newTestClient(t, srv.URL)

	res := client.Load(context.Background(), "Steve")

	assert.Equal(t, CodeInvalidData, res.ErrorCode)
	assert.Contains(t, res.Message, "invalid data received")
}

func TestClient_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	client := newTestClient(t, srv.URL)
	data, _ := NewPlayerData("uuid-1", "Steve", nil)

	res := client.Save(context.Background(), "Steve", data)

	assert.Equal(t, CodeUnknownError, res.ErrorCode)
	assert.Equal(t, "failed to save: status 502", res.Message)
}
