package httphandlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/alder-protocol/mrv-dashboard/internal/geo"
	"github.com/alder-protocol/mrv-dashboard/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
)

type mapHolder interface {
	Map() (*geo.Drawing, error)
}

func (h *HTTPHandler) ListProjectWizards(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, WizardListResponse{IDs: h.projects.IDs()})
}

func (h *HTTPHandler) ListMRVWizards(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, WizardListResponse{IDs: h.mrvs.IDs()})
}

func (h *HTTPHandler) projectWizard(ctx *gin.Context) (*wizard.ProjectWizard, bool) {
	w, ok := h.projects.Get(ctx.Param("id"))
	if !ok {
		h.notFound(ctx, "project wizard")
	}
	return w, ok
}

func (h *HTTPHandler) mrvWizard(ctx *gin.Context) (*wizard.MRVWizard, bool) {
	w, ok := h.mrvs.Get(ctx.Param("id"))
	if !ok {
		h.notFound(ctx, "mrv wizard")
	}
	return w, ok
}

// Project wizard

func (h *HTTPHandler) CreateProjectWizard(ctx *gin.Context) {
	id, w := h.projects.Add(func(id string) *wizard.ProjectWizard {
		return wizard.NewProjectWizard(id, h.session, h.service, h.projectIDs, h.log.Named("project-wizard"))
	})
	ctx.Header("Location", h.self("/wizards/project/"+id).Self)
	ctx.JSON(http.StatusCreated, w.View())
}

func (h *HTTPHandler) GetProjectWizard(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) DeleteProjectWizard(ctx *gin.Context) {
	if _, ok := h.projectWizard(ctx); !ok {
		return
	}
	h.projects.Delete(ctx.Param("id"))
	ctx.Status(http.StatusNoContent)
}

func (h *HTTPHandler) SetProjectFields(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	var req SetFieldsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := w.SetFields(req.Fields); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) ProjectNext(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	if err := w.Next(); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) ProjectPrev(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	if err := w.Prev(); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) ProjectToggleMap(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	var req ToggleMapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := w.ToggleMap(req.Field); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) ProjectLoadMap(ctx *gin.Context) {
	if w, ok := h.projectWizard(ctx); ok {
		h.loadMap(ctx, w)
	}
}

func (h *HTTPHandler) ProjectCreateFeature(ctx *gin.Context) {
	if w, ok := h.projectWizard(ctx); ok {
		h.createFeature(ctx, w)
	}
}

func (h *HTTPHandler) ProjectEditFeature(ctx *gin.Context) {
	if w, ok := h.projectWizard(ctx); ok {
		h.editFeature(ctx, w)
	}
}

func (h *HTTPHandler) ProjectDeleteFeature(ctx *gin.Context) {
	if w, ok := h.projectWizard(ctx); ok {
		h.deleteFeature(ctx, w)
	}
}

func (h *HTTPHandler) ProjectSaveMap(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	if err := w.SaveMap(); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) ProjectSubmit(ctx *gin.Context) {
	w, ok := h.projectWizard(ctx)
	if !ok {
		return
	}
	if _, err := w.Submit(ctx); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

// MRV wizard

func (h *HTTPHandler) CreateMRVWizard(ctx *gin.Context) {
	id, w := h.mrvs.Add(func(id string) *wizard.MRVWizard {
		return wizard.NewMRVWizard(id, h.session, h.service, h.estimator, h.log.Named("mrv-wizard"))
	})
	ctx.Header("Location", h.self("/wizards/mrv/"+id).Self)
	ctx.JSON(http.StatusCreated, w.View())
}

func (h *HTTPHandler) GetMRVWizard(ctx *gin.Context) {
	w, ok := h.mrvWizard(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) DeleteMRVWizard(ctx *gin.Context) {
	if _, ok := h.mrvWizard(ctx); !ok {
		return
	}
	h.mrvs.Delete(ctx.Param("id"))
	ctx.Status(http.StatusNoContent)
}

func (h *HTTPHandler) SetMRVProject(ctx *gin.Context) {
	w, ok := h.mrvWizard(ctx)
	if !ok {
		return
	}
	var req SetProjectIDRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := w.SetProjectID(req.ProjectID); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) MRVOpenMap(ctx *gin.Context) {
	w, ok := h.mrvWizard(ctx)
	if !ok {
		return
	}
	if _, err := w.OpenMap(); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) MRVLoadMap(ctx *gin.Context) {
	if w, ok := h.mrvWizard(ctx); ok {
		h.loadMap(ctx, w)
	}
}

func (h *HTTPHandler) MRVCreateFeature(ctx *gin.Context) {
	if w, ok := h.mrvWizard(ctx); ok {
		h.createFeature(ctx, w)
	}
}

func (h *HTTPHandler) MRVEditFeature(ctx *gin.Context) {
	if w, ok := h.mrvWizard(ctx); ok {
		h.editFeature(ctx, w)
	}
}

func (h *HTTPHandler) MRVDeleteFeature(ctx *gin.Context) {
	if w, ok := h.mrvWizard(ctx); ok {
		h.deleteFeature(ctx, w)
	}
}

func (h *HTTPHandler) MRVSaveMap(ctx *gin.Context) {
	w, ok := h.mrvWizard(ctx)
	if !ok {
		return
	}
	if err := w.SaveMap(); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

func (h *HTTPHandler) MRVStart(ctx *gin.Context) {
	w, ok := h.mrvWizard(ctx)
	if !ok {
		return
	}
	value, err := w.Start(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, EstimateResponse{EstimatedTCO2: value})
}

func (h *HTTPHandler) MRVMint(ctx *gin.Context) {
	w, ok := h.mrvWizard(ctx)
	if !ok {
		return
	}
	if _, err := w.Mint(ctx); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, w.View())
}

// Map drawing

func (h *HTTPHandler) drawing(ctx *gin.Context, holder mapHolder) (*geo.Drawing, bool) {
	d, err := holder.Map()
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	return d, true
}

func (h *HTTPHandler) respondDrawing(ctx *gin.Context, d *geo.Drawing, status int) {
	fc, err := d.GeoJSON()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.Data(status, "application/geo+json", []byte(fc))
}

// drawingError maps drawing failures to client errors
func (h *HTTPHandler) drawingError(ctx *gin.Context, err error) {
	if errors.Is(err, geo.ErrFeatureNotFound) {
		h.notFound(ctx, "feature")
		return
	}
	h.badRequest(ctx, err)
}

func (h *HTTPHandler) loadMap(ctx *gin.Context, holder mapHolder) {
	d, ok := h.drawing(ctx, holder)
	if !ok {
		return
	}
	var req LoadMapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := d.Load(req.GeoJSON); err != nil {
		h.drawingError(ctx, err)
		return
	}
	h.respondDrawing(ctx, d, http.StatusOK)
}

func (h *HTTPHandler) createFeature(ctx *gin.Context, holder mapHolder) {
	d, ok := h.drawing(ctx, holder)
	if !ok {
		return
	}
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	f, err := geojson.UnmarshalFeature(body)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	id, err := d.Create(f)
	if err != nil {
		h.drawingError(ctx, err)
		return
	}
	fc, err := d.GeoJSON()
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, FeatureResponse{ID: id, GeoJSON: fc})
}

func (h *HTTPHandler) editFeature(ctx *gin.Context, holder mapHolder) {
	d, ok := h.drawing(ctx, holder)
	if !ok {
		return
	}
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	g, err := geojson.UnmarshalGeometry(body)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := d.Edit(ctx.Param("featureID"), g.Geometry()); err != nil {
		h.drawingError(ctx, err)
		return
	}
	h.respondDrawing(ctx, d, http.StatusOK)
}

func (h *HTTPHandler) deleteFeature(ctx *gin.Context, holder mapHolder) {
	d, ok := h.drawing(ctx, holder)
	if !ok {
		return
	}
	if err := d.Delete(ctx.Param("featureID")); err != nil {
		h.drawingError(ctx, err)
		return
	}
	h.respondDrawing(ctx, d, http.StatusOK)
}
