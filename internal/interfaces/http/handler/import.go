package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sopas/backend/internal/application/importer"
	"github.com/sopas/backend/internal/infrastructure/config"
	"github.com/sopas/backend/internal/infrastructure/importfile"
	"github.com/sopas/backend/internal/interfaces/http/dto"
)

const defaultHistoryLimit = 20

// ImportHandler handles bulk upload endpoints. Uploaded files are
// spooled to the configured temp directory; the importer removes them
// once the batch is decided.
type ImportHandler struct {
	BaseHandler
	parties *importer.PartyImporter
	agents  *importer.AgentImporter
	stores  *importer.StoreImporter
	history *importer.HistoryService
	upload  config.UploadConfig
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(
	parties *importer.PartyImporter,
	agents *importer.AgentImporter,
	stores *importer.StoreImporter,
	history *importer.HistoryService,
	upload config.UploadConfig,
) *ImportHandler {
	return &ImportHandler{
		parties: parties,
		agents:  agents,
		stores:  stores,
		history: history,
		upload:  upload,
	}
}

// RegisterRoutes registers import routes on the API group
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/import")
	group.POST("/parties", h.ImportParties)
	group.POST("/agents", h.ImportAgents)
	group.POST("/stores", h.ImportStores)
	group.GET("/history", h.History)
}

// ImportParties bulk-creates parties from an uploaded file
func (h *ImportHandler) ImportParties(c *gin.Context) {
	h.runImport(c, h.parties.Import)
}

// ImportAgents bulk-creates agents from an uploaded file
func (h *ImportHandler) ImportAgents(c *gin.Context) {
	h.runImport(c, h.agents.Import)
}

// ImportStores bulk-creates stores from an uploaded file
func (h *ImportHandler) ImportStores(c *gin.Context) {
	h.runImport(c, h.stores.Import)
}

// History returns the most recent import audit records
func (h *ImportHandler) History(c *gin.Context) {
	records, err := h.history.Recent(c.Request.Context(), defaultHistoryLimit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dto.NewImportRecordListResponse(records))
}

func (h *ImportHandler) runImport(c *gin.Context, doImport func(ctx context.Context, filePath, fileName string) (*importer.Result, error)) {
	file, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing uploaded file")
		return
	}
	if file.Size > h.upload.MaxFileSize {
		h.Error(c, dto.ErrCodePayloadTooLarge, "Uploaded file exceeds the size limit")
		return
	}

	path, err := h.spoolUpload(c, file)
	if err != nil {
		h.InternalError(c, "Could not store the uploaded file")
		return
	}

	result, err := doImport(c.Request.Context(), path, file.Filename)
	if err != nil {
		h.rejectImport(c, file.Filename, err)
		return
	}

	h.Success(c, dto.NewImportResponse(file.Filename, result))
}

// spoolUpload writes the upload to the temp directory under a random
// name with the original extension, which the parser uses to pick the
// file format.
func (h *ImportHandler) spoolUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.upload.TempDir, 0o755); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(h.upload.TempDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

func (h *ImportHandler) rejectImport(c *gin.Context, fileName string, err error) {
	requestID := getRequestID(c)

	var rowErr *importfile.RowError
	if errors.As(err, &rowErr) {
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeImportRejected), dto.Response{
			Success: false,
			Data: dto.ImportRejection{
				FileName: fileName,
				RowError: rowErr,
				Message:  rowErr.Error(),
			},
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeImportRejected,
				Message:   "Import rejected, no rows were inserted",
				RequestID: requestID,
			},
		})
		return
	}

	if errors.Is(err, importfile.ErrUnsupportedFormat) {
		h.Error(c, dto.ErrCodeUnsupported, "Only .csv and .xlsx files are supported")
		return
	}
	if errors.Is(err, importfile.ErrEmptyFile) || errors.Is(err, importfile.ErrNoDataRows) ||
		errors.Is(err, importfile.ErrMissingHeader) || errors.Is(err, importfile.ErrInvalidEncoding) {
		h.BadRequest(c, err.Error())
		return
	}

	h.HandleDomainError(c, err)
}
