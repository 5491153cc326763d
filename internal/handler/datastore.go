package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/wy414012/proxmox-backup/internal/form"
	"github.com/wy414012/proxmox-backup/internal/middleware"
	"github.com/wy414012/proxmox-backup/templates"
)

// HandleDatastoreNew renders the editor in create mode: everything
// editable, identity fields required, nothing prefilled.
func (h *Handler) HandleDatastoreNew(c echo.Context) error {
	page := h.editorPage(form.ModeCreate, "", nil, "")
	return c.Render(http.StatusOK, "datastore_edit", page)
}

// HandleDatastoreCreate validates the submission and forwards it as an
// insert request to the base resource path.
func (h *Handler) HandleDatastoreCreate(c echo.Context) error {
	values := h.formValues(c)

	if err := h.schema.Validate(form.ModeCreate, values); err != nil {
		page := h.editorPage(form.ModeCreate, "", values, err.Error())
		return c.Render(http.StatusBadRequest, "datastore_edit", page)
	}

	sess := middleware.SessionFrom(c)
	payload := h.schema.Insert(values)

	if err := h.apiFor(sess).CreateDatastore(c.Request().Context(), payload); err != nil {
		log.Error().Err(err).Msg("datastore create failed")
		page := h.editorPage(form.ModeCreate, "", values, err.Error())
		return c.Render(http.StatusBadGateway, "datastore_edit", page)
	}

	log.Info().Str("datastore", values["name"]).Msg("datastore created")
	return c.Redirect(http.StatusSeeOther, "/")
}

// HandleDatastoreEdit renders the editor in edit mode over the stored
// record: identity read-only, focus on the comment field.
func (h *Handler) HandleDatastoreEdit(c echo.Context) error {
	name := c.Param("name")
	sess := middleware.SessionFrom(c)

	existing, err := h.apiFor(sess).GetDatastore(c.Request().Context(), name)
	if err != nil {
		log.Error().Str("datastore", name).Err(err).Msg("loading datastore failed")
		return c.Render(http.StatusBadGateway, "error", templates.ErrorPage{
			Status:  http.StatusBadGateway,
			Message: err.Error(),
		})
	}

	page := h.editorPage(form.ModeEdit, name, existing.Values(), "")
	return c.Render(http.StatusOK, "datastore_edit", page)
}

// HandleDatastoreUpdate validates the submission and forwards it as a
// replace request. Fields the user cleared travel as delete markers,
// computed against the record's current server-side values.
func (h *Handler) HandleDatastoreUpdate(c echo.Context) error {
	name := c.Param("name")
	sess := middleware.SessionFrom(c)
	values := h.formValues(c)

	if err := h.schema.Validate(form.ModeEdit, values); err != nil {
		page := h.editorPage(form.ModeEdit, name, values, err.Error())
		return c.Render(http.StatusBadRequest, "datastore_edit", page)
	}

	client := h.apiFor(sess)

	existing, err := client.GetDatastore(c.Request().Context(), name)
	if err != nil {
		log.Error().Str("datastore", name).Err(err).Msg("loading datastore failed")
		return c.Render(http.StatusBadGateway, "error", templates.ErrorPage{
			Status:  http.StatusBadGateway,
			Message: err.Error(),
		})
	}

	payload, deletes := h.schema.Replace(values, existing.Values())

	if err := client.UpdateDatastore(c.Request().Context(), name, payload, deletes); err != nil {
		log.Error().Str("datastore", name).Err(err).Msg("datastore update failed")
		page := h.editorPage(form.ModeEdit, name, values, err.Error())
		return c.Render(http.StatusBadGateway, "datastore_edit", page)
	}

	log.Info().Str("datastore", name).Strs("deleted", deletes).Msg("datastore updated")
	return c.Redirect(http.StatusSeeOther, "/")
}

// formValues collects the submitted value of every schema field.
func (h *Handler) formValues(c echo.Context) map[string]string {
	values := make(map[string]string, len(h.schema))
	for _, f := range h.schema {
		values[f.Name] = c.FormValue(f.Name)
	}
	return values
}

// editorPage renders the schema into template fields for the given
// mode, carrying current values and an optional error banner.
func (h *Handler) editorPage(mode form.Mode, name string, values map[string]string, errMsg string) templates.EditorPage {
	page := templates.EditorPage{
		Title:    "Add Datastore",
		Action:   "/datastore/new",
		EditMode: mode == form.ModeEdit,
		Error:    errMsg,
	}
	if mode == form.ModeEdit {
		page.Title = "Edit Datastore: " + name
		page.Action = "/datastore/" + name
	}

	focus := h.schema.FocusField(mode)
	for _, f := range h.schema {
		constraint := f.ConstraintFor(mode)
		page.Fields = append(page.Fields, templates.EditorField{
			Name:     f.Name,
			Label:    f.Label,
			Value:    values[f.Name],
			Editable: constraint.Editable,
			Required: constraint.Required,
			Numeric:  f.Kind == form.KindCount,
			Focus:    f.Name == focus,
		})
	}

	return page
}
