package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/domain/entity"
)

var exportHeader = []string{"日期", "餐別", "代號", "姓名", "餐點", "金額", "已付款", "代墊人"}

// ExportAccounting handles GET /api/accounting/export?date=YYYY-MM-DD,
// streaming one day's ledger as an XLSX workbook.
func (h *Handlers) ExportAccounting(c *gin.Context) {
	date, ok := h.parseDateParam(c)
	if !ok {
		return
	}

	rows, err := h.orders.ListByDate(c.Request.Context(), date)
	if err != nil {
		h.internalError(c, "failed to load orders", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for i, o := range rows {
		h.writeExportRow(f, sheet, i+2, o)
	}

	filename := fmt.Sprintf("accounting-%s.xlsx", date.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream export", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

func (h *Handlers) writeExportRow(f *excelize.File, sheet string, row int, o *entity.OrderDetail) {
	paid := "否"
	if o.Paid {
		paid = "是"
	}
	payer := ""
	if o.HasPayer() {
		payer = o.PayerCode + ". " + o.PayerName
	}

	values := []interface{}{
		o.MenuDate.Format("2006-01-02"),
		o.MealType,
		o.UserCode,
		o.UserName,
		o.Items,
		o.Amount,
		paid,
		payer,
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, v)
	}
}
