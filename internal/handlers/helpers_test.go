package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dherslof/racing-companion/internal/auth"
	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/registry"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router      http.Handler
	store       *db.FileStore
	vehicles    *registry.VehicleRegistry
	trackDays   *registry.TrackDayRegistry
	maintenance *registry.MaintenanceRegistry
}

func newTestEnv(t *testing.T, authService *auth.Service) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := db.NewFileStore(t.TempDir())
	coll := db.NewJSONCollection(store)

	vehicles, err := registry.NewVehicleRegistry(coll, logger)
	require.NoError(t, err)
	trackDays, err := registry.NewTrackDayRegistry(coll, vehicles, logger)
	require.NoError(t, err)
	maintenance, err := registry.NewMaintenanceRegistry(coll, vehicles, logger)
	require.NoError(t, err)

	return &testEnv{
		router: NewRouter(RouterConfig{
			Vehicles:    vehicles,
			TrackDays:   trackDays,
			Maintenance: maintenance,
			Auth:        authService,
			Logger:      logger,
		}),
		store:       store,
		vehicles:    vehicles,
		trackDays:   trackDays,
		maintenance: maintenance,
	}
}

// do sends a request through the router. A non-nil body is encoded as JSON.
func (e *testEnv) do(t *testing.T, method, target string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
