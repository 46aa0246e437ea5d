package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"papertrader/internal/delivery/http/dto"
	"papertrader/internal/domain"
	"papertrader/internal/telemetry"
	"papertrader/internal/usecase"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EngineHandler maps the caller-facing engine contract onto HTTP
type EngineHandler struct {
	engine *usecase.PaperTradingService
	hub    *telemetry.Hub
}

// NewEngineHandler creates a new EngineHandler
func NewEngineHandler(engine *usecase.PaperTradingService, hub *telemetry.Hub) *EngineHandler {
	return &EngineHandler{engine: engine, hub: hub}
}

// StartTrading handles POST /api/trading/start
func (h *EngineHandler) StartTrading(c echo.Context) error {
	started := h.engine.Start()
	return SuccessMessageResponse(c, "Trading started", map[string]bool{"running": started})
}

// StopTrading handles POST /api/trading/stop
func (h *EngineHandler) StopTrading(c echo.Context) error {
	h.engine.Stop()
	return SuccessMessageResponse(c, "Trading stopped", map[string]bool{"running": false})
}

// GetStatus handles GET /api/status
func (h *EngineHandler) GetStatus(c echo.Context) error {
	return SuccessResponse(c, h.engine.Status())
}

// GetLearningStatus handles GET /api/learning-status
func (h *EngineHandler) GetLearningStatus(c echo.Context) error {
	return SuccessResponse(c, h.engine.LearningStatus())
}

// GetPositions handles GET /api/positions
func (h *EngineHandler) GetPositions(c echo.Context) error {
	return SuccessResponse(c, h.engine.OpenPositions())
}

// GetHistory handles GET /api/history
func (h *EngineHandler) GetHistory(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	trades, err := h.engine.ClosedHistory(c.Request().Context(), limit)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to load trade history", err)
	}
	return SuccessResponse(c, trades)
}

// MarketOrder handles POST /api/orders/market
func (h *EngineHandler) MarketOrder(c echo.Context) error {
	var req dto.MarketOrderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}
	return h.submit(c, req.Symbol, req.Side, req.Size, nil, 1)
}

// LimitOrder handles POST /api/orders/limit
func (h *EngineHandler) LimitOrder(c echo.Context) error {
	var req dto.LimitOrderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}
	if req.Price <= 0 {
		return BadRequestResponse(c, "Price must be positive")
	}
	return h.submit(c, req.Symbol, req.Side, req.Size, &req.Price, 1)
}

// FuturesOrder handles POST /api/orders/futures
func (h *EngineHandler) FuturesOrder(c echo.Context) error {
	var req dto.FuturesOrderRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}
	return h.submit(c, req.Symbol, req.Side, req.Size, nil, req.Leverage)
}

// ToggleMode handles POST /api/mode/toggle
func (h *EngineHandler) ToggleMode(c echo.Context) error {
	mode, err := h.engine.ToggleMode()
	if err != nil {
		if errors.Is(err, domain.ErrNotReadyForLive) {
			return ConflictResponse(c, "Graduation criteria not met, live trading not authorized")
		}
		return InternalServerErrorResponse(c, "Failed to toggle mode", err)
	}
	return SuccessMessageResponse(c, "Trading mode changed", map[string]string{"mode": mode})
}

// Events handles GET /api/events/ws, streaming lifecycle events over a
// websocket connection
func (h *EngineHandler) Events(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("[WARN] Websocket upgrade failed: %v", err)
		return err
	}

	h.hub.Register(conn)
	return nil
}

// submit funnels every order variant through the engine's single open path
func (h *EngineHandler) submit(c echo.Context, symbol, side string, size float64, price *float64, leverage float64) error {
	if symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	trade, err := h.engine.SubmitOrder(c.Request().Context(), symbol, side, size, price, leverage)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLiveExecutionUnavailable):
			return ErrorResponse(c, http.StatusServiceUnavailable, "Live order execution is not available", nil)
		case errors.Is(err, domain.ErrUnsupportedAsset):
			return ErrorResponse(c, http.StatusUnprocessableEntity, "Asset cannot be evaluated", nil)
		default:
			return BadRequestResponse(c, err.Error())
		}
	}

	return CreatedResponse(c, trade)
}
