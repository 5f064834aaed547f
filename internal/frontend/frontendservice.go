package frontend

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/schoolbook/internal/backend/database"
	"github.com/jo-hoe/schoolbook/internal/core"
)

const (
	addSchoolPageName   = "addSchool.html"
	showSchoolsPageName = "showSchools.html"
)

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(viewsFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler)
	e.GET("/addSchool", service.addSchoolHandler)
	e.GET("/showSchools", service.showSchoolsHandler)
}

// rootRedirectHandler sends visitors to the directory listing.
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/showSchools")
}

func (service *FrontendService) addSchoolHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, addSchoolPageName, nil)
}

// schoolCard is the view model for one record on the listing page.
type schoolCard struct {
	database.School
	ImagePath string
}

func (service *FrontendService) showSchoolsHandler(ctx echo.Context) error {
	schools, err := service.coreService.ListSchools(ctx.Request().Context())
	if err != nil {
		slog.Error("showSchoolsHandler: failed to list schools",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to fetch schools")
	}

	cards := make([]schoolCard, 0, len(schools))
	for _, school := range schools {
		imagePath := "/images/placeholder"
		if school.Image != "" {
			imagePath = "/images/" + school.Image
		}
		cards = append(cards, schoolCard{School: school, ImagePath: imagePath})
	}

	return ctx.Render(http.StatusOK, showSchoolsPageName, map[string]any{
		"Schools": cards,
	})
}
