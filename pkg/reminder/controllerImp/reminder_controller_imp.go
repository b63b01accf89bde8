package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"farmadvisor/entities"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/httputil"
	"farmadvisor/pkg/reminder/service"
)

type ReminderCtrl struct {
	svc service.ReminderService
}

func New(svc service.ReminderService) *ReminderCtrl { return &ReminderCtrl{svc: svc} }

func uid(c echo.Context) string {
	if v, ok := c.Get("uid").(string); ok {
		return v
	}
	return ""
}

func (h *ReminderCtrl) Create(c echo.Context) error {
	var in entities.Reminder
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json: "+err.Error()))
	}
	if in.UserID == "" {
		in.UserID = uid(c)
	}
	rem, err := h.svc.CreateReminder(in)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, rem)
}

func (h *ReminderCtrl) Get(c echo.Context) error {
	rem, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, rem)
}

func (h *ReminderCtrl) Update(c echo.Context) error {
	var in entities.Reminder
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	rem, err := h.svc.UpdateReminder(c.Param("id"), in)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, rem)
}

func (h *ReminderCtrl) Delete(c echo.Context) error {
	if err := h.svc.DeleteReminder(c.Param("id")); err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ReminderCtrl) Toggle(c echo.Context) error {
	rem, err := h.svc.ToggleReminder(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, rem)
}

func (h *ReminderCtrl) Active(c echo.Context) error {
	out, err := h.svc.ActiveReminders(uid(c))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *ReminderCtrl) Upcoming(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	out, err := h.svc.UpcomingReminders(uid(c), days)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

// CreateForCrop derives the standard sowing/irrigation/pest-check set from a
// crop record in one call.
func (h *ReminderCtrl) CreateForCrop(c echo.Context) error {
	var crop entities.CropRecord
	if err := c.Bind(&crop); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	created, err := h.svc.CreateCropReminders(uid(c), crop)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusCreated, created)
}

// CheckNow runs a sweep on demand, outside the scheduler cadence.
func (h *ReminderCtrl) CheckNow(c echo.Context) error {
	fired, err := h.svc.CheckDueReminders()
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, map[string]int{"fired": fired})
}

func (h *ReminderCtrl) UnreadNotifications(c echo.Context) error {
	out, err := h.svc.UnreadNotifications(uid(c))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, out)
}

func (h *ReminderCtrl) MarkRead(c echo.Context) error {
	n, err := h.svc.MarkNotificationRead(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, n)
}

func (h *ReminderCtrl) MarkActioned(c echo.Context) error {
	n, err := h.svc.MarkNotificationActioned(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, n)
}
