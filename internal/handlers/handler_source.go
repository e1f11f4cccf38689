package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bukubesar/internal/core/producers"
	portssvc "github.com/SscSPs/bukubesar/internal/core/ports/services"
	"github.com/SscSPs/bukubesar/internal/dto"
	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/gin-gonic/gin"
)

// sourceHandler turns upstream documents into posted journals.
type sourceHandler struct {
	journalService portssvc.JournalPosterSvc
	scale          int32
}

// RegisterSourceRoutes registers the routes through which payroll, cash and
// purchasing post their documents.
func RegisterSourceRoutes(rg *gin.RouterGroup, journalService portssvc.JournalPosterSvc, scale int32, write ...gin.HandlerFunc) {
	h := &sourceHandler{journalService: journalService, scale: scale}

	sources := rg.Group("/sources")
	{
		sources.POST("/salary-batches", chain(write, h.postSalaryBatch)...)
		sources.POST("/cash-transactions", chain(write, h.postCashTransaction)...)
		sources.POST("/purchase-receipts", chain(write, h.postPurchaseReceipt)...)
	}
}

// postSalaryBatch godoc
// @Summary Post a salary batch
// @Description Turns a payroll batch into a posted journal.
// @Tags sources
// @Accept  json
// @Produce  json
// @Param   batch body dto.SalaryBatchPayload true "Salary batch"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 422 {object} map[string]interface{} "Rejected by a ledger rule"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /sources/salary-batches [post]
func (h *sourceHandler) postSalaryBatch(c *gin.Context) {
	var payload dto.SalaryBatchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err, "SalaryBatch body")
		return
	}

	batch := producers.SalaryBatch{BatchID: payload.BatchID, PeriodLabel: payload.PeriodLabel}
	date, err := dto.ParseDate(payload.Date)
	if err != nil {
		respondError(c, err, h.scale, "post salary batch")
		return
	}
	batch.Date = date
	for i, l := range payload.Lines {
		amount, err := dto.ParseAmount(l.Amount, h.scale, fmt.Sprintf("line %d amount", i))
		if err != nil {
			respondError(c, err, h.scale, "post salary batch")
			return
		}
		batch.Lines = append(batch.Lines, producers.SalaryLine{
			Employee:       l.Employee,
			ExpenseAccount: l.ExpenseAccount,
			PaymentAccount: l.PaymentAccount,
			Amount:         amount,
		})
	}

	req, err := producers.SalaryBatchJournal(batch)
	if err != nil {
		respondError(c, err, h.scale, "post salary batch")
		return
	}
	h.buildAndPost(c, req, "post salary batch")
}

// postCashTransaction godoc
// @Summary Post a cash transaction
// @Description Turns a cash receipt or payment into a posted journal.
// @Tags sources
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CashTransactionPayload true "Cash transaction"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 422 {object} map[string]interface{} "Rejected by a ledger rule"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /sources/cash-transactions [post]
func (h *sourceHandler) postCashTransaction(c *gin.Context) {
	var payload dto.CashTransactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err, "CashTransaction body")
		return
	}

	date, err := dto.ParseDate(payload.Date)
	if err != nil {
		respondError(c, err, h.scale, "post cash transaction")
		return
	}
	tx := producers.CashTransaction{
		Kind:        payload.Kind,
		Direction:   producers.CashDirection(payload.Direction),
		VoucherNo:   payload.VoucherNo,
		Date:        date,
		CashAccount: payload.CashAccount,
		Description: payload.Description,
	}
	for i, it := range payload.Items {
		amount, err := dto.ParseAmount(it.Amount, h.scale, fmt.Sprintf("item %d amount", i))
		if err != nil {
			respondError(c, err, h.scale, "post cash transaction")
			return
		}
		tx.Items = append(tx.Items, producers.CashItem{AccountRef: it.Account, Amount: amount, Memo: it.Memo})
	}

	req, err := producers.CashTransactionJournal(tx)
	if err != nil {
		respondError(c, err, h.scale, "post cash transaction")
		return
	}
	h.buildAndPost(c, req, "post cash transaction")
}

// postPurchaseReceipt godoc
// @Summary Post a purchase receipt
// @Description Turns a goods receipt into a posted journal, with input tax on its own line.
// @Tags sources
// @Accept  json
// @Produce  json
// @Param   receipt body dto.PurchaseReceiptPayload true "Purchase receipt"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]interface{} "Invalid request format or validation error"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 403 {object} map[string]interface{} "Missing capability"
// @Failure 409 {object} map[string]interface{} "Conflicting state"
// @Failure 422 {object} map[string]interface{} "Rejected by a ledger rule"
// @Failure 500 {object} map[string]interface{} "Internal error"
// @Security BearerAuth
// @Router /sources/purchase-receipts [post]
func (h *sourceHandler) postPurchaseReceipt(c *gin.Context) {
	var payload dto.PurchaseReceiptPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err, "PurchaseReceipt body")
		return
	}

	date, err := dto.ParseDate(payload.Date)
	if err != nil {
		respondError(c, err, h.scale, "post purchase receipt")
		return
	}
	tax, err := dto.ParseAmount(payload.TaxAmount, h.scale, "tax amount")
	if err != nil {
		respondError(c, err, h.scale, "post purchase receipt")
		return
	}
	receipt := producers.PurchaseReceipt{
		ReceiptNo:      payload.ReceiptNo,
		Supplier:       payload.Supplier,
		Date:           date,
		PayableAccount: payload.PayableAccount,
		TaxAccount:     payload.TaxAccount,
		TaxAmount:      tax,
	}
	for i, it := range payload.Items {
		amount, err := dto.ParseAmount(it.Amount, h.scale, fmt.Sprintf("item %d amount", i))
		if err != nil {
			respondError(c, err, h.scale, "post purchase receipt")
			return
		}
		receipt.Items = append(receipt.Items, producers.PurchaseItem{AccountRef: it.Account, Amount: amount, Memo: it.Memo})
	}

	req, err := producers.PurchaseReceiptJournal(receipt)
	if err != nil {
		respondError(c, err, h.scale, "post purchase receipt")
		return
	}
	h.buildAndPost(c, req, "post purchase receipt")
}

func (h *sourceHandler) buildAndPost(c *gin.Context, req dto.CreateJournalRequest, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("source_kind", req.Source.Kind),
		slog.String("source_ref", req.Source.Ref),
	)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	journal, err := h.journalService.BuildAndPost(c.Request.Context(), req, actor, middleware.GetCapabilitiesFromContext(c))
	if err != nil {
		respondError(c, err, h.scale, action)
		return
	}

	logger.Info("Source document posted", slog.String("journal_id", journal.JournalID), slog.String("number", journal.DisplayNumber()))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal, h.scale))
}
