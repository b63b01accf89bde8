package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"farmadvisor/entities"
	"farmadvisor/pkg/advisory/service"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/httputil"
	"farmadvisor/pkg/knowledge"
)

// profileSource assembles the user context for recommendation requests.
type profileSource interface {
	FindByID(id string) (*entities.User, error)
}

type AdvisoryCtrl struct {
	svc      service.AdvisoryService
	kb       *knowledge.Engine
	profiles profileSource
}

func New(svc service.AdvisoryService, kb *knowledge.Engine, profiles profileSource) *AdvisoryCtrl {
	return &AdvisoryCtrl{svc: svc, kb: kb, profiles: profiles}
}

func (h *AdvisoryCtrl) Create(c echo.Context) error {
	var in entities.Advisory
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json: "+err.Error()))
	}
	a, err := h.svc.Create(in)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, a)
}

func (h *AdvisoryCtrl) Get(c echo.Context) error {
	a, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, a)
}

func (h *AdvisoryCtrl) UpdateStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	a, err := h.svc.UpdateStatus(c.Param("id"), entities.AdvisoryStatus(body.Status), body.Notes)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, a)
}

func (h *AdvisoryCtrl) AddFeedback(c echo.Context) error {
	var body struct {
		Feedback string `json:"feedback"`
		Notes    string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	a, err := h.svc.AddFeedback(c.Param("id"), body.Feedback, body.Notes)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, a)
}

func (h *AdvisoryCtrl) ListByUser(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	f := service.Filters{
		Type:      entities.AdvisoryType(c.QueryParam("type")),
		Priority:  entities.Priority(c.QueryParam("priority")),
		Status:    entities.AdvisoryStatus(c.QueryParam("status")),
		Crop:      c.QueryParam("crop"),
		ValidOnly: c.QueryParam("validOnly") == "true",
	}
	out, err := h.svc.List(c.Param("userId"), page, limit, f)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *AdvisoryCtrl) Active(c echo.Context) error {
	out, err := h.svc.Active(c.Param("userId"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *AdvisoryCtrl) Urgent(c echo.Context) error {
	out, err := h.svc.Urgent(c.Param("userId"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *AdvisoryCtrl) Stats(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	out, err := h.svc.UserStats(c.Param("userId"), days)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

// Recommendations assembles the user context from the stored profile and
// runs the knowledge engine over it.
func (h *AdvisoryCtrl) Recommendations(c echo.Context) error {
	u, err := h.profiles.FindByID(c.Param("userId"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	ctx := knowledge.UserContext{
		Location:        u.Location,
		SoilType:        u.SoilType,
		IrrigationType:  u.IrrigationType,
		FarmingType:     u.FarmingType,
		ExperienceYears: u.ExperienceYears,
		Crops:           u.Crops,
	}
	if s := c.QueryParam("season"); s != "" {
		ctx.CurrentSeason = knowledge.Season(s)
	}
	return httputil.OK(c, http.StatusOK, h.kb.GenerateRecommendations(ctx))
}

func (h *AdvisoryCtrl) Generate(c echo.Context) error {
	var body struct {
		Trigger string         `json:"trigger"`
		Data    map[string]any `json:"data"`
	}
	if err := c.Bind(&body); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	if body.Trigger == "" {
		return httputil.Fail(c, apperr.Validation("trigger is required"))
	}
	a, err := h.svc.Generate(c.Param("userId"), body.Trigger, body.Data)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, a)
}

func (h *AdvisoryCtrl) FromTemplate(c echo.Context) error {
	var body struct {
		UserID string         `json:"user_id"`
		Data   map[string]any `json:"data"`
	}
	if err := c.Bind(&body); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	if body.UserID == "" {
		if v, ok := c.Get("uid").(string); ok {
			body.UserID = v
		}
	}
	a, err := h.svc.FromTemplate(body.UserID, c.Param("templateType"), body.Data)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, a)
}

func (h *AdvisoryCtrl) ActionPlan(c echo.Context) error {
	plan, err := h.svc.ActionPlanFor(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, plan)
}

func (h *AdvisoryCtrl) BulkStatus(c echo.Context) error {
	var body struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	if len(body.IDs) == 0 {
		return httputil.Fail(c, apperr.Validation("ids are required"))
	}
	n, err := h.svc.BulkStatus(body.IDs, entities.AdvisoryStatus(body.Status))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, map[string]int{"updated": n})
}

func (h *AdvisoryCtrl) CleanupExpired(c echo.Context) error {
	n, err := h.svc.CleanupExpired()
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, map[string]int{"removed": n})
}

func (h *AdvisoryCtrl) Effectiveness(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	out, err := h.svc.AdminEffectiveness(days)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *AdvisoryCtrl) OfflineExport(c echo.Context) error {
	out, err := h.svc.OfflineExport(c.Param("userId"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}
