package http

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yusefelshater/TransCalc/internal/adapters/export"
	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/pkg/metrics"
)

// AnalysisRequest is the body of POST /v1/analyses. The route arrives either
// as a GeoJSON document or as an inline point list; weights and topK are
// optional, as is a segment block restricting the analysis to a slice of the
// route.
type AnalysisRequest struct {
	GeoJSON json.RawMessage   `json:"geojson,omitempty"`
	Points  []domain.GeoPoint `json:"points,omitempty"`
	Weights domain.WeightSet  `json:"weights,omitempty"`
	TopK    int               `json:"top_k,omitempty"`
	Segment *SegmentRequest   `json:"segment,omitempty"`
}

// SegmentRequest selects a slice of the route to analyze. Bidirectional runs
// both the forward and reverse slices from the same anchor.
type SegmentRequest struct {
	LengthM       float64 `json:"length_m"`
	Anchor        string  `json:"anchor,omitempty"` // start | mid | end
	Bidirectional bool    `json:"bidirectional,omitempty"`
}

func (r *AnalysisRequest) path() (domain.Path, error) {
	if len(r.GeoJSON) > 0 {
		return domain.ParsePathGeoJSON(r.GeoJSON)
	}
	if len(r.Points) > 0 {
		return domain.Path(r.Points), nil
	}
	return nil, fmt.Errorf("either geojson or points is required")
}

// CreateAnalysisHandler runs a full route analysis.
func CreateAnalysisHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req AnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		path, err := req.path()
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if len(path) < 2 {
			return errBadRequest(c, "path must contain at least two points")
		}

		ctx := c.UserContext()

		if req.Segment != nil && req.Segment.Bidirectional {
			anchor := domain.SliceAnchor(req.Segment.Anchor)
			result, err := deps.Planner.AnalyzeBidirectional(ctx, path, req.Segment.LengthM, anchor, req.Weights, req.TopK)
			if err != nil {
				return errUpstream(c, err.Error())
			}
			metrics.AnalysesRun.Inc()
			return c.Status(fiber.StatusCreated).JSON(result)
		}

		if req.Segment != nil {
			path = path.Slice(req.Segment.LengthM, domain.SliceAnchor(req.Segment.Anchor), domain.DirectionForward)
		}

		result, err := deps.Planner.Analyze(ctx, path, req.Weights, req.TopK)
		if err != nil {
			if strings.Contains(err.Error(), "at least two points") {
				return errBadRequest(c, err.Error())
			}
			return errUpstream(c, err.Error())
		}
		metrics.AnalysesRun.Inc()
		return c.Status(fiber.StatusCreated).JSON(result)
	}
}

// ListFacilitiesHandler passes a single category query through to the live
// gateway: GET /v1/facilities?category=asphalt&bbox=south,west,north,east
func ListFacilitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := domain.Category(c.Query("category"))
		if category == "" {
			return errBadRequest(c, "category query parameter is required")
		}
		if !isLiveCategory(category) {
			return errBadRequest(c, "unknown category: "+string(category))
		}

		bounds, err := parseBBox(c.Query("bbox"))
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		facilities, err := deps.Gateway.QueryFacilities(c.UserContext(), bounds, category)
		if err != nil {
			return errUpstream(c, err.Error())
		}

		// Offset/limit pagination over the full result
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		total := len(facilities)
		if offset >= total {
			facilities = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			facilities = facilities[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(PaginatedResponse{Data: facilities, Pagination: pg})
	}
}

// LanduseHandler resolves the land-use suitability near a point.
func LanduseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return errBadRequest(c, "lat/lon out of range")
		}

		score, label := deps.Gateway.LanduseScore(c.UserContext(), domain.GeoPoint{Lat: lat, Lon: lon})

		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{
			"score": score,
			"label": label,
		})
	}
}

// DefaultWeightsHandler returns the stock factor weighting.
func DefaultWeightsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(domain.DefaultWeights())
	}
}

// PavementReportHandler runs the pavement mix performance and cost model.
func PavementReportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var design domain.MixDesign
		if err := c.BodyParser(&design); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		report, err := deps.Pavement.Report(design)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(report)
	}
}

// ExportRequest is the body of POST /v1/exports/:format — an analysis
// snapshot previously returned by POST /v1/analyses, plus its inputs.
type ExportRequest struct {
	Route   []domain.GeoPoint      `json:"route"`
	Weights domain.WeightSet       `json:"weights,omitempty"`
	Result  *domain.AnalysisResult `json:"result"`
}

// ExportHandler serializes a posted analysis snapshot as json, csv, or xlsx.
func ExportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		format := strings.ToLower(c.Params("format"))

		var req ExportRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Result == nil {
			return errBadRequest(c, "result is required")
		}

		report := export.NewReport(domain.Path(req.Route), req.Weights, req.Result)
		filename := "transcalc_report_" + strconv.FormatInt(time.Now().Unix(), 10)

		buf := c.Response().BodyWriter()
		switch format {
		case "json":
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`.json"`)
			if err := export.JSON(buf, report); err != nil {
				return errInternal(c, err.Error())
			}
		case "csv":
			c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`.csv"`)
			if err := export.CSV(buf, report); err != nil {
				return errInternal(c, err.Error())
			}
		case "xlsx":
			c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`.xlsx"`)
			if err := export.Excel(buf, report); err != nil {
				return errInternal(c, err.Error())
			}
		default:
			return errNotFound(c, "unknown export format: "+format)
		}
		return nil
	}
}

func isLiveCategory(cat domain.Category) bool {
	for _, c := range domain.LiveCategories() {
		if c == cat {
			return true
		}
	}
	return false
}

// parseBBox parses "south,west,north,east" degrees.
func parseBBox(raw string) (domain.Bounds, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return domain.Bounds{}, fmt.Errorf("bbox must be south,west,north,east")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Bounds{}, fmt.Errorf("bbox component %d is not a number", i+1)
		}
		vals[i] = v
	}
	b := domain.Bounds{MinLat: vals[0], MinLon: vals[1], MaxLat: vals[2], MaxLon: vals[3]}
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return domain.Bounds{}, fmt.Errorf("bbox south/west must not exceed north/east")
	}
	return b, nil
}
