package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehicleHandler_Lifecycle(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, "POST", "/api/vehicles", VehicleRequest{Name: "  Yamaha R6 ", Type: models.VehicleTypeMotorcycle, Year: 2019, Misc: "track bike"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created VehicleResponse
	decode(t, w, &created)
	assert.Equal(t, "Yamaha R6", created.Name)
	assert.Equal(t, "MC", created.Abbreviation)
	assert.Equal(t, models.Year(2019), created.Year)
	assert.False(t, created.Active)

	t.Run("duplicate is a conflict", func(t *testing.T) {
		w := env.do(t, "POST", "/api/vehicles", VehicleRequest{Name: "Yamaha R6"}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		w := env.do(t, "POST", "/api/vehicles", VehicleRequest{Name: "   "}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("defaults", func(t *testing.T) {
		w := env.do(t, "POST", "/api/vehicles", VehicleRequest{Name: "Golf"}, "")
		require.Equal(t, http.StatusCreated, w.Code)
		var v VehicleResponse
		decode(t, w, &v)
		assert.Equal(t, models.VehicleTypeCar, v.Type)
		assert.Equal(t, models.Year(time.Now().Year()), v.Year)
	})

	t.Run("list keeps registration order", func(t *testing.T) {
		w := env.do(t, "GET", "/api/vehicles", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list VehicleListResponse
		decode(t, w, &list)
		require.Len(t, list.Vehicles, 2)
		assert.Equal(t, "Yamaha R6", list.Vehicles[0].Name)
		assert.Equal(t, "Golf", list.Vehicles[1].Name)
		assert.Empty(t, list.Active)
	})

	t.Run("toggle active", func(t *testing.T) {
		w := env.do(t, "POST", "/api/vehicles/Golf/toggle-active", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		active, ok := env.vehicles.Active()
		assert.True(t, ok)
		assert.Equal(t, "Golf", active)

		w = env.do(t, "POST", "/api/vehicles/Golf/toggle-active", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		_, ok = env.vehicles.Active()
		assert.False(t, ok)
	})

	t.Run("rename carries the active slot", func(t *testing.T) {
		require.Equal(t, http.StatusOK, env.do(t, "PUT", "/api/active-vehicle", ActiveVehicleRequest{Name: "Golf"}, "").Code)

		newYear := 2005
		w := env.do(t, "PUT", "/api/vehicles/Golf", models.VehicleEdit{NewName: "Golf GTI", Year: &newYear}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var v VehicleResponse
		decode(t, w, &v)
		assert.Equal(t, "Golf GTI", v.Name)
		assert.Equal(t, models.Year(2005), v.Year)
		assert.True(t, v.Active)

		assert.Equal(t, http.StatusNotFound, env.do(t, "GET", "/api/vehicles/Golf", nil, "").Code)
	})

	t.Run("rename onto existing name is refused", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/vehicles/Golf%20GTI", models.VehicleEdit{NewName: "Yamaha R6"}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown active vehicle", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/active-vehicle", ActiveVehicleRequest{Name: "Nope"}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete twice", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, env.do(t, "DELETE", "/api/vehicles/Golf%20GTI", nil, "").Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, "DELETE", "/api/vehicles/Golf%20GTI", nil, "").Code)
		_, ok := env.vehicles.Active()
		assert.False(t, ok)
	})

	t.Run("clear active", func(t *testing.T) {
		require.True(t, env.vehicles.SetActive("Yamaha R6"))
		w := env.do(t, "DELETE", "/api/active-vehicle", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp ActiveVehicleRequest
		decode(t, w, &resp)
		assert.Empty(t, resp.Name)
	})
}
