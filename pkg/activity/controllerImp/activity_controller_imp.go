package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"farmadvisor/entities"
	activitySvc "farmadvisor/pkg/activity/serviceImp"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/httputil"
)

type ActivityCtrl struct{ svc *activitySvc.ActivitySvc }

func New(svc *activitySvc.ActivitySvc) *ActivityCtrl { return &ActivityCtrl{svc} }

func (h *ActivityCtrl) Create(c echo.Context) error {
	var in entities.Activity
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json: "+err.Error()))
	}
	if in.UserID == "" {
		if v, ok := c.Get("uid").(string); ok {
			in.UserID = v
		}
	}
	a, err := h.svc.Create(in)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, a)
}

func (h *ActivityCtrl) Get(c echo.Context) error {
	a, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, a)
}

func (h *ActivityCtrl) Update(c echo.Context) error {
	var in entities.Activity
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	a, err := h.svc.Update(c.Param("id"), in)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, a)
}

func (h *ActivityCtrl) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ActivityCtrl) ListByUser(c echo.Context) error {
	f := activitySvc.Filters{
		Type:   c.QueryParam("type"),
		Crop:   c.QueryParam("crop"),
		Status: entities.ActivityStatus(c.QueryParam("status")),
	}
	out, err := h.svc.List(c.Param("userId"), f)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *ActivityCtrl) Stats(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	out, err := h.svc.Stats(c.Param("userId"), days)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *ActivityCtrl) Upcoming(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	out, err := h.svc.Upcoming(c.Param("userId"), days)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *ActivityCtrl) Overdue(c echo.Context) error {
	out, err := h.svc.Overdue(c.Param("userId"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *ActivityCtrl) AddIssue(c echo.Context) error {
	var issue entities.ActivityIssue
	if err := c.Bind(&issue); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	a, err := h.svc.AddIssue(c.Param("id"), issue)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, a)
}

func (h *ActivityCtrl) AddAttachment(c echo.Context) error {
	var att entities.ActivityAttachment
	if err := c.Bind(&att); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	a, err := h.svc.AddAttachment(c.Param("id"), att)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, a)
}

func (h *ActivityCtrl) BulkStatus(c echo.Context) error {
	var body struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if err := c.Bind(&body); err != nil || len(body.IDs) == 0 {
		return httputil.Fail(c, apperr.Validation("ids are required"))
	}
	n, err := h.svc.BulkStatus(body.IDs, entities.ActivityStatus(body.Status))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, map[string]int{"updated": n})
}

// Export streams the user's activity log as csv or json.
func (h *ActivityCtrl) Export(c echo.Context) error {
	userID := c.Param("userId")
	if c.QueryParam("format") == "csv" {
		data, err := h.svc.ExportCSV(userID)
		if err != nil {
			return httputil.Fail(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="activities.csv"`)
		return c.Blob(http.StatusOK, "text/csv", data)
	}
	out, err := h.svc.List(userID, activitySvc.Filters{})
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

// Insights summarises spend and completion for the dashboard.
func (h *ActivityCtrl) Insights(c echo.Context) error {
	st, err := h.svc.Stats(c.Param("userId"), 365)
	if err != nil {
		return httputil.Fail(c, err)
	}
	costliest := ""
	var max float64
	for t, cost := range st.CostByType {
		if cost > max {
			max = cost
			costliest = t
		}
	}
	return httputil.OK(c, http.StatusOK, map[string]any{
		"stats":          st,
		"costliest_type": costliest,
	})
}
