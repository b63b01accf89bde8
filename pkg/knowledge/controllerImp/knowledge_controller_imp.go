package controllerImp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"

	"farmadvisor/entities"
	"farmadvisor/pkg/apperr"
	"farmadvisor/pkg/httputil"
	"farmadvisor/pkg/knowledge"
	"farmadvisor/pkg/knowledge/repository"
)

type KnowledgeCtrl struct {
	engine   *knowledge.Engine
	articles repository.ArticleRepository
	allow    map[string]bool
	maxBytes int
}

func New(engine *knowledge.Engine, articles repository.ArticleRepository, allowedDomains string, maxBytes int) *KnowledgeCtrl {
	allow := map[string]bool{}
	for _, h := range strings.Split(allowedDomains, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			allow[strings.ToLower(h)] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	return &KnowledgeCtrl{engine: engine, articles: articles, allow: allow, maxBytes: maxBytes}
}

func (h *KnowledgeCtrl) Season(c echo.Context) error {
	now := time.Now()
	return httputil.OK(c, http.StatusOK, map[string]any{
		"season": h.engine.CurrentSeason(now),
		"date":   now.Format("2006-01-02"),
	})
}

func (h *KnowledgeCtrl) Calendar(c echo.Context) error {
	crop := c.Param("crop")
	if season := c.QueryParam("season"); season != "" {
		stages := h.engine.SeasonStages(crop, knowledge.Season(season))
		if stages == nil {
			return httputil.Fail(c, apperr.NotFound("CROP", "no calendar for "+crop+" in "+season))
		}
		return httputil.OK(c, http.StatusOK, stages)
	}
	entry := h.engine.CropCalendar(crop)
	if entry == nil {
		return httputil.Fail(c, apperr.NotFound("CROP", "unknown crop: "+crop))
	}
	return httputil.OK(c, http.StatusOK, entry)
}

func (h *KnowledgeCtrl) Pests(c echo.Context) error {
	pests := h.engine.CropPests(c.Param("crop"), knowledge.Season(c.QueryParam("season")))
	return httputil.OK(c, http.StatusOK, pests)
}

func (h *KnowledgeCtrl) Stage(c echo.Context) error {
	crop := c.Param("crop")
	season := knowledge.Season(c.QueryParam("season"))
	if season == "" {
		season = h.engine.CurrentSeason(time.Now())
	}
	stage := h.engine.CurrentCropStage(crop, season, time.Now())
	if stage == nil {
		return httputil.Fail(c, apperr.NotFound("STAGE", "no active stage for "+crop))
	}
	return httputil.OK(c, http.StatusOK, stage)
}

func (h *KnowledgeCtrl) SuitableCrops(c echo.Context) error {
	out := h.engine.SuitableCrops(knowledge.Season(c.QueryParam("season")), c.QueryParam("soil"))
	return httputil.OK(c, http.StatusOK, out)
}

func (h *KnowledgeCtrl) Practices(c echo.Context) error {
	general, specific := h.engine.BestPractices(c.Param("activity"), c.QueryParam("crop"))
	return httputil.OK(c, http.StatusOK, map[string]any{"general": general, "specific": specific})
}

func (h *KnowledgeCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return httputil.Fail(c, apperr.Validation("q is required"))
	}
	return httputil.OK(c, http.StatusOK, h.engine.SearchKnowledge(q))
}

// IngestURL pulls the main text of an allow-listed page into a searchable
// knowledge article.
func (h *KnowledgeCtrl) IngestURL(c echo.Context) error {
	var body struct{ URL, Tags, Title string }
	if err := c.Bind(&body); err != nil || body.URL == "" {
		return httputil.Fail(c, apperr.Validation("url is required"))
	}
	u, err := url.Parse(body.URL)
	if err != nil {
		return httputil.Fail(c, apperr.Validation("bad url"))
	}
	if !h.allow[strings.ToLower(u.Host)] {
		return httputil.Fail(c, &apperr.Error{
			StatusCode: http.StatusForbidden, Code: "DOMAIN_NOT_ALLOWED",
			Message: "domain not allowed: " + u.Host,
		})
	}

	text, title, err := fetchMainText(body.URL, h.maxBytes)
	if err != nil {
		return httputil.Fail(c, apperr.Internal("fetch: "+err.Error()))
	}
	if body.Title != "" {
		title = body.Title
	}
	art := &entities.KnowledgeArticle{Title: title, SourceURL: body.URL, Tags: body.Tags, Text: text}
	if err := h.articles.Create(art); err != nil {
		return httputil.Fail(c, apperr.Internal(err.Error()))
	}
	return httputil.OK(c, http.StatusCreated, art)
}

func fetchMainText(u string, maxBytes int) (string, string, error) {
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Get(u)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.ContentLength > 0 && resp.ContentLength > int64(maxBytes) {
		return "", "", fmt.Errorf("page too large")
	}
	limited := io.LimitedReader{R: resp.Body, N: int64(maxBytes)}
	b, err := io.ReadAll(&limited)
	if err != nil {
		return "", "", err
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "text/plain") {
		text := string(b)
		return text, firstLine(text), nil
	}
	if !strings.Contains(ct, "text/html") {
		return "", "", fmt.Errorf("unsupported content-type: %s", ct)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	// main/article content, falling back to the whole document
	var parts []string
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n"), title, nil
}

func firstLine(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}
