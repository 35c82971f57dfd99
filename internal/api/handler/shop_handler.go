package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/ottermap/workflow-system/internal/api/metrics"
	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// ShopHandler handles shop registration and nearest-shop search. The shop API
// keeps the original fixed-credential token endpoint: one configured
// username/password pair trades for a bearer token.
type ShopHandler struct {
	service   ports.ShopService
	authUser  string
	authPass  string
	jwtSecret string
	tokenTTL  time.Duration
}

func NewShopHandler(service ports.ShopService, authUser, authPass, jwtSecret string, tokenTTL time.Duration) *ShopHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &ShopHandler{
		service:   service,
		authUser:  authUser,
		authPass:  authPass,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// CreateToken exchanges the fixed credential pair for a bearer token.
//
// @Summary      Create a shop API token
// @Tags         shops
// @Accept       json
// @Produce      json
// @Param        body  body      shopTokenRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /shops/create-token [post]
func (h *ShopHandler) CreateToken(c echo.Context) error {
	var req shopTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Username != h.authUser || req.Password != h.authPass {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"username": req.Username,
		"role":     domain.RoleUser,
		"exp":      time.Now().Add(h.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, tokenResponse{AccessToken: token}, "token generated successfully")
}

// Register adds a shop with validated coordinates.
//
// @Summary      Register a shop
// @Tags         shops
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerShopRequest  true  "Shop details"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /shops/register [post]
func (h *ShopHandler) Register(c echo.Context) error {
	var req registerShopRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	shop, err := h.service.Register(c.Request().Context(), req.Name, *req.Latitude, *req.Longitude)
	if err != nil {
		return err
	}

	metrics.ShopsRegisteredTotal.Inc()

	return respond(c, http.StatusOK, shopResponse{
		ShopID:    shop.ID,
		Name:      shop.Name,
		Latitude:  shop.Latitude,
		Longitude: shop.Longitude,
	}, "shop details saved successfully")
}

// Search returns all shops ranked by distance from the query point.
// An empty store yields an empty list, not an error.
//
// @Summary      Search shops by proximity
// @Tags         shops
// @Produce      json
// @Param        latitude   query     number  true  "Query latitude"
// @Param        longitude  query     number  true  "Query longitude"
// @Success      200        {object}  envelope
// @Failure      400        {object}  envelope
// @Router       /shops/search [get]
func (h *ShopHandler) Search(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "latitude is required and must be a number")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "longitude is required and must be a number")
	}

	start := time.Now()
	results, err := h.service.Search(c.Request().Context(), lat, lon)
	if err != nil {
		return err
	}
	metrics.ShopSearchDuration.Observe(time.Since(start).Seconds())

	return respond(c, http.StatusOK, results, "shops fetched successfully")
}
