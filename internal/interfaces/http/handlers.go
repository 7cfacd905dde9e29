package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"github.com/ycfang/orderbot/internal/repository"
	"github.com/ycfang/orderbot/internal/storage"
	"github.com/ycfang/orderbot/pkg/database"
)

const historyPageSize = 20

// Handlers contains all dashboard request handlers.
type Handlers struct {
	db      *database.DB
	users   *repository.UserRepository
	menus   *repository.MenuRepository
	orders  *repository.OrderRepository
	files   *storage.FileStore
	library *storage.MenuLibrary
	loc     *time.Location
	logger  *zap.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(
	db *database.DB,
	users *repository.UserRepository,
	menus *repository.MenuRepository,
	orders *repository.OrderRepository,
	files *storage.FileStore,
	library *storage.MenuLibrary,
	loc *time.Location,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		db:      db,
		users:   users,
		menus:   menus,
		orders:  orders,
		files:   files,
		library: library,
		loc:     loc,
		logger:  logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handlers) today() time.Time {
	now := time.Now().In(h.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
}

// parseDateParam reads a ?date=YYYY-MM-DD query, defaulting to today.
func (h *Handlers) parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return h.today(), true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: msg})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}})
}

// DashboardResponse summarizes today plus outstanding debt overall.
type DashboardResponse struct {
	Date             string             `json:"date"`
	TodayOrders      int                `json:"today_orders"`
	TodayTotal       float64            `json:"today_total"`
	TodayUnpaid      float64            `json:"today_unpaid"`
	OutstandingTotal float64            `json:"outstanding_total"`
	Members          int                `json:"members"`
	ByMeal           map[string]float64 `json:"by_meal"`
}

// Dashboard handles GET /api/dashboard.
func (h *Handlers) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	today := h.today()

	todayRows, err := h.orders.ListByDate(ctx, today)
	if err != nil {
		h.internalError(c, "failed to load today's orders", err)
		return
	}

	resp := DashboardResponse{
		Date:   today.Format("2006-01-02"),
		ByMeal: make(map[string]float64),
	}
	resp.TodayOrders = len(todayRows)
	for _, o := range todayRows {
		resp.TodayTotal += o.Amount
		if !o.Paid {
			resp.TodayUnpaid += o.Amount
		}
		resp.ByMeal[o.MealType] += o.Amount
	}

	unpaid, err := h.orders.ListUnpaidAll(ctx)
	if err != nil {
		h.internalError(c, "failed to load unpaid orders", err)
		return
	}
	for _, o := range unpaid {
		resp.OutstandingTotal += o.Amount
	}

	members, err := h.users.CountMembers(ctx)
	if err != nil {
		h.internalError(c, "failed to count members", err)
		return
	}
	resp.Members = members

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.users.ListMembers(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list users", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: users})
}

type userRequest struct {
	UserCode string `json:"user_code" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// CreateUser handles POST /api/users.
func (h *Handlers) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "user_code and name are required"})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.users.GetByCode(ctx, req.UserCode)
	if err != nil {
		h.internalError(c, "failed to check user code", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, Response{Success: false, Error: "user code already exists"})
		return
	}

	user := &entity.User{UserCode: req.UserCode, Name: req.Name}
	if err := h.users.Create(ctx, user); err != nil {
		h.internalError(c, "failed to create user", err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: user})
}

// UpdateUser handles PUT /api/users/:id.
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "user_code and name are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.internalError(c, "failed to load user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "user not found"})
		return
	}

	if req.UserCode != user.UserCode {
		taken, err := h.users.GetByCode(ctx, req.UserCode)
		if err != nil {
			h.internalError(c, "failed to check user code", err)
			return
		}
		if taken != nil {
			c.JSON(http.StatusConflict, Response{Success: false, Error: "user code already exists"})
			return
		}
	}

	user.UserCode = req.UserCode
	user.Name = req.Name
	if err := h.users.Update(ctx, user); err != nil {
		h.internalError(c, "failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: user})
}

// DeleteUser handles DELETE /api/users/:id. The admin account is
// undeletable; member deletion cascades to their orders while orders
// they fronted merely lose attribution.
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.internalError(c, "failed to load user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "user not found"})
		return
	}
	if user.IsAdmin {
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "admin account cannot be deleted"})
		return
	}

	if err := h.users.Delete(ctx, id); err != nil {
		h.internalError(c, "failed to delete user", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// AccountingResponse is one day's ledger grouped by meal.
type AccountingResponse struct {
	Date   string                           `json:"date"`
	Total  float64                          `json:"total"`
	Unpaid float64                          `json:"unpaid"`
	ByMeal map[string][]*entity.OrderDetail `json:"by_meal"`
}

// Accounting handles GET /api/accounting?date=YYYY-MM-DD.
func (h *Handlers) Accounting(c *gin.Context) {
	date, ok := h.parseDateParam(c)
	if !ok {
		return
	}

	rows, err := h.orders.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.internalError(c, "failed to load orders", err)
		return
	}

	resp := AccountingResponse{
		Date:   date.Format("2006-01-02"),
		ByMeal: make(map[string][]*entity.OrderDetail),
	}
	for _, o := range rows {
		resp.Total += o.Amount
		if !o.Paid {
			resp.Unpaid += o.Amount
		}
		resp.ByMeal[o.MealType] = append(resp.ByMeal[o.MealType], o)
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

// UpdateOrderAmount handles PUT /api/orders/:id/amount.
func (h *Handlers) UpdateOrderAmount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount < 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "amount must be a non-negative number"})
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		h.internalError(c, "failed to load order", err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "order not found"})
		return
	}

	if err := h.orders.UpdateAmount(ctx, id, req.Amount); err != nil {
		h.internalError(c, "failed to update amount", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ToggleOrderPaid handles POST /api/orders/:id/toggle-paid.
func (h *Handlers) ToggleOrderPaid(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		h.internalError(c, "failed to load order", err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "order not found"})
		return
	}

	if err := h.orders.SetPaid(ctx, id, !order.Paid); err != nil {
		h.internalError(c, "failed to update paid flag", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"paid": !order.Paid}})
}

// DeleteOrder handles DELETE /api/orders/:id.
func (h *Handlers) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		h.internalError(c, "failed to load order", err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "order not found"})
		return
	}

	if err := h.orders.Delete(ctx, id); err != nil {
		h.internalError(c, "failed to delete order", err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// HistoryResponse is a page of the full order history, newest first.
type HistoryResponse struct {
	Orders     []*entity.OrderDetail `json:"orders"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
	Total      int                   `json:"total"`
}

// History handles GET /api/history?page=N.
func (h *Handlers) History(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx := c.Request.Context()
	total, err := h.orders.Count(ctx)
	if err != nil {
		h.internalError(c, "failed to count orders", err)
		return
	}

	rows, err := h.orders.ListPage(ctx, historyPageSize, (page-1)*historyPageSize)
	if err != nil {
		h.internalError(c, "failed to load history", err)
		return
	}

	totalPages := (total + historyPageSize - 1) / historyPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: HistoryResponse{
		Orders:     rows,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}})
}

// UploadMenuImage handles POST /api/menus/upload (multipart: date,
// meal_type, file). The image is attached to the slot's menu, which is
// created when missing.
func (h *Handlers) UploadMenuImage(c *gin.Context) {
	dateRaw := c.PostForm("date")
	mealType := c.PostForm("meal_type")

	date, err := time.ParseInLocation("2006-01-02", dateRaw, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid date, expected YYYY-MM-DD"})
		return
	}
	if !validMealType(mealType) {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid meal_type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file is required"})
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		h.internalError(c, "failed to read upload", err)
		return
	}
	defer src.Close()

	filename, err := h.files.Save(mealType, fileHeader.Filename, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	menu, err := h.menus.GetOrCreate(ctx, date, mealType,
		date.Format("2006/01/02")+" "+mealType)
	if err != nil {
		h.internalError(c, "failed to resolve menu", err)
		return
	}
	if err := h.menus.UpdateFilename(ctx, menu.ID, filename); err != nil {
		h.internalError(c, "failed to attach image", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"menu_id":  menu.ID,
		"filename": filename,
	}})
}

func validMealType(mealType string) bool {
	for _, m := range entity.MealTypes {
		if m == mealType {
			return true
		}
	}
	return false
}
