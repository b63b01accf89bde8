package controllerImp

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"farmadvisor/entities"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/httputil"
	"farmadvisor/pkg/user/repository"
)

type UserCtrl struct{ repo repository.UserRepository }

func New(repo repository.UserRepository) *UserCtrl { return &UserCtrl{repo} }

func (h *UserCtrl) Create(c echo.Context) error {
	var in entities.User
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json: "+err.Error()))
	}
	if strings.TrimSpace(in.Name) == "" || (in.Phone == "" && in.Email == "") {
		return httputil.Fail(c, apperr.Validation("name and phone or email are required"))
	}
	for _, ident := range []string{in.Phone, in.Email} {
		if ident == "" {
			continue
		}
		if _, err := h.repo.FindByIdentifier(ident); err == nil {
			return httputil.Fail(c, apperr.UserExists("a user with identifier "+ident+" already exists"))
		}
	}
	in.ID = uuid.NewString()
	if err := h.repo.Create(&in); err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	return httputil.OK(c, http.StatusCreated, in)
}

func (h *UserCtrl) Get(c echo.Context) error {
	u, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, u)
}

func (h *UserCtrl) Update(c echo.Context) error {
	u, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		return httputil.Fail(c, err)
	}
	var in entities.User
	if err := c.Bind(&in); err != nil {
		return httputil.Fail(c, apperr.Validation("invalid json"))
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.ExperienceYears > 0 {
		u.ExperienceYears = in.ExperienceYears
	}
	if in.FarmingType != "" {
		u.FarmingType = in.FarmingType
	}
	if in.Location != "" {
		u.Location = in.Location
	}
	if in.State != "" {
		u.State = in.State
	}
	if in.SoilType != "" {
		u.SoilType = in.SoilType
	}
	if in.IrrigationType != "" {
		u.IrrigationType = in.IrrigationType
	}
	if in.Crops != nil {
		u.Crops = in.Crops
	}
	if err := h.repo.Save(u); err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	return httputil.OK(c, http.StatusOK, u)
}

func (h *UserCtrl) Delete(c echo.Context) error {
	if _, err := h.repo.FindByID(c.Param("id")); err != nil {
		return httputil.Fail(c, err)
	}
	if err := h.repo.Delete(c.Param("id")); err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	return httputil.OK(c, http.StatusOK, map[string]string{"status": "deleted"})
}

// Auth resolves a user by phone or email. No credentials; trust sits at the
// gateway in front of this service.
func (h *UserCtrl) Auth(c echo.Context) error {
	var body struct {
		Identifier string `json:"identifier"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Identifier) == "" {
		return httputil.Fail(c, apperr.Validation("identifier is required"))
	}
	u, err := h.repo.FindByIdentifier(body.Identifier)
	if err != nil {
		return httputil.Fail(c, err)
	}
	return httputil.OK(c, http.StatusOK, u)
}

func (h *UserCtrl) ByLocation(c echo.Context) error {
	loc := strings.TrimSpace(c.QueryParam("location"))
	if loc == "" {
		return httputil.Fail(c, apperr.Validation("location is required"))
	}
	users, err := h.repo.FindByLocation(loc)
	if err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	return httputil.OK(c, http.StatusOK, users)
}

func (h *UserCtrl) AdminStats(c echo.Context) error {
	users, err := h.repo.FindAll()
	if err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	byState := map[string]int{}
	byFarming := map[string]int{}
	withCrops := 0
	for _, u := range users {
		if u.State != "" {
			byState[u.State]++
		}
		if u.FarmingType != "" {
			byFarming[u.FarmingType]++
		}
		if len(u.Crops) > 0 {
			withCrops++
		}
	}
	return httputil.OK(c, http.StatusOK, map[string]any{
		"total":           len(users),
		"by_state":        byState,
		"by_farming_type": byFarming,
		"with_crops":      withCrops,
	})
}

func (h *UserCtrl) AdminExport(c echo.Context) error {
	users, err := h.repo.FindAll()
	if err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	return httputil.OK(c, http.StatusOK, users)
}

func (h *UserCtrl) BulkUpdate(c echo.Context) error {
	var body struct {
		IDs    []string       `json:"ids"`
		Fields map[string]any `json:"fields"`
	}
	if err := c.Bind(&body); err != nil || len(body.IDs) == 0 {
		return httputil.Fail(c, apperr.Validation("ids are required"))
	}
	updated := 0
	for _, id := range body.IDs {
		u, err := h.repo.FindByID(id)
		if err != nil {
			continue
		}
		if v, ok := body.Fields["location"].(string); ok && v != "" {
			u.Location = v
		}
		if v, ok := body.Fields["state"].(string); ok && v != "" {
			u.State = v
		}
		if v, ok := body.Fields["farming_type"].(string); ok && v != "" {
			u.FarmingType = v
		}
		if err := h.repo.Save(u); err == nil {
			updated++
		}
	}
	return httputil.OK(c, http.StatusOK, map[string]int{"updated": updated})
}
