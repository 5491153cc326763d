package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// The /state endpoints let the browser persist layout state (column
// widths, last sort, open panels) across reloads. Keys are namespaced
// by the store itself.

// HandleStateGet returns a stored value verbatim.
func (h *Handler) HandleStateGet(c echo.Context) error {
	value, err := h.store.Get(c.Param("key"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.String(http.StatusOK, value)
}

// HandleStatePut stores the request body under the key.
func (h *Handler) HandleStatePut(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "unreadable body")
	}

	if err := h.store.Set(c.Param("key"), string(body)); err != nil {
		return c.String(http.StatusInternalServerError, "failed to store state")
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleStateDelete forgets a key.
func (h *Handler) HandleStateDelete(c echo.Context) error {
	if err := h.store.Delete(c.Param("key")); err != nil {
		return c.String(http.StatusInternalServerError, "failed to delete state")
	}
	return c.NoContent(http.StatusNoContent)
}
