package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/serenespring/massage-booking-api/internal/audit"
	"github.com/serenespring/massage-booking-api/internal/domain/scheduling"
	"github.com/serenespring/massage-booking-api/internal/httperr"
	"github.com/serenespring/massage-booking-api/internal/models"
)

type BlocksHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBlocksHandler(db *gorm.DB, audit *audit.Dispatcher) *BlocksHandler {
	return &BlocksHandler{db: db, audit: audit}
}

type CreateBlockRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	BlockType string    `json:"block_type"`
	Reason    string    `json:"reason"`
}

func (h *BlocksHandler) List(c *gin.Context) {
	q := h.db.Model(&models.AvailabilityBlock{})

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate != "" && endDate != "" {
		q = q.Where("start_time >= ? AND end_time <= ?", startDate, endDate)
	}

	var blocks []models.AvailabilityBlock
	if err := q.Order("start_time ASC").Find(&blocks).Error; err != nil {
		httperr.Internal(c, "failed_to_list_blocks", "Failed to list availability blocks.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": blocks})
}

func (h *BlocksHandler) Create(c *gin.Context) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if !req.EndTime.After(req.StartTime) {
		httperr.BadRequest(c, "invalid_interval", "End time must be after start time.")
		return
	}

	blockType := req.BlockType
	if blockType == "" {
		blockType = scheduling.BlockTypeBlocked
	}
	if blockType != scheduling.BlockTypeBlocked && blockType != scheduling.BlockTypeAvailableOverride {
		httperr.BadRequest(c, "invalid_block_type", "Unknown block type.")
		return
	}

	block := models.AvailabilityBlock{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		BlockType: blockType,
		Reason:    req.Reason,
	}

	if err := h.db.Create(&block).Error; err != nil {
		httperr.Internal(c, "failed_to_create_block", "Failed to create availability block.")
		return
	}

	h.audit.Dispatch(audit.Event{
		AdminID:  adminIDFromContext(c),
		Action:   "block_created",
		Entity:   "availability_block",
		EntityID: &block.ID,
		Metadata: req,
	})

	c.JSON(http.StatusCreated, gin.H{"data": block})
}

func (h *BlocksHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_block_id", "Invalid block id.")
		return
	}

	res := h.db.Delete(&models.AvailabilityBlock{}, uint(id))
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_block", "Failed to delete availability block.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "block_not_found", "Availability block not found.")
		return
	}

	blockID := uint(id)
	h.audit.Dispatch(audit.Event{
		AdminID:  adminIDFromContext(c),
		Action:   "block_deleted",
		Entity:   "availability_block",
		EntityID: &blockID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
