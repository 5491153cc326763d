package handler

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/wy414012/proxmox-backup/internal/middleware"
	"github.com/wy414012/proxmox-backup/internal/view"
	"github.com/wy414012/proxmox-backup/templates"
)

// sortStateKey remembers the main view's datastore ordering across
// reloads.
const sortStateKey = "main-view.sort"

// HandleRoot is the shell entry point: the main view for signed-in
// sessions, the login view otherwise.
func (h *Handler) HandleRoot(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	shell := h.shellFor(sess)
	if shell.ActiveName() != view.MainView {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	datastores, err := h.apiFor(sess).ListDatastores(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("listing datastores failed")
		return c.Render(http.StatusBadGateway, "error", templates.ErrorPage{
			Status:  http.StatusBadGateway,
			Message: err.Error(),
		})
	}

	sortField := c.QueryParam("sort")
	if sortField != "" {
		if err := h.store.Set(sortStateKey, sortField); err != nil {
			log.Warn().Err(err).Msg("persisting sort state failed")
		}
	} else if saved, err := h.store.Get(sortStateKey); err == nil {
		sortField = saved
	}

	if sortField == "path" {
		sort.Slice(datastores, func(i, j int) bool { return datastores[i].Path < datastores[j].Path })
	} else {
		sort.Slice(datastores, func(i, j int) bool { return datastores[i].Name < datastores[j].Name })
	}

	return c.Render(http.StatusOK, "main", templates.MainPage{
		Username:   sess.Username(),
		Datastores: datastores,
		SortField:  sortField,
	})
}
