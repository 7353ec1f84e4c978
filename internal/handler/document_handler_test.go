package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"doccompare/internal/domain"
	"doccompare/internal/handler"
	"doccompare/internal/middleware"
	"doccompare/internal/service"
	"doccompare/mocks"
)

func newUploadContext(t *testing.T, fields map[string]string, withFile bool, userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if withFile {
		part, err := writer.CreateFormFile("file", "invoice.pdf")
		assert.NoError(t, err)
		_, _ = part.Write([]byte("%PDF-1.4 test content"))
	}
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	_ = writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	c.Set(middleware.ContextKeyUserID, userID)
	return c, w
}

func TestDocumentHandler_Upload(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewDocumentHandler(uploads)
	userID, groupID := uuid.New(), uuid.New()

	uploads.On("Upload", mock.Anything, mock.MatchedBy(func(in *service.UploadDocumentInput) bool {
		return in.UserID == userID && in.GroupID == groupID &&
			in.DocumentType == "invoice" && in.Description == "March" &&
			in.Header != nil && in.Header.Filename == "invoice.pdf" && in.File != nil
	})).Return(&domain.UploadedDocument{ID: uuid.New(), GroupID: groupID, OriginalName: "invoice.pdf"}, nil)

	c, w := newUploadContext(t, map[string]string{
		"group_id":      groupID.String(),
		"document_type": "invoice",
		"description":   "March",
	}, true, userID)
	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	uploads.AssertExpectations(t)
}

func TestDocumentHandler_Upload_MissingFile(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewDocumentHandler(uploads)

	c, w := newUploadContext(t, map[string]string{"group_id": uuid.New().String()}, false, uuid.New())
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decodeResponse(t, w).Error.Code)
	uploads.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Upload_MissingGroup(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewDocumentHandler(uploads)

	c, w := newUploadContext(t, nil, true, uuid.New())
	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}

func TestDocumentHandler_Upload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"storage down", domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploads := new(mocks.MockUploadService)
			h := handler.NewDocumentHandler(uploads)
			uploads.On("Upload", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newUploadContext(t, map[string]string{"group_id": uuid.New().String()}, true, uuid.New())
			h.Upload(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestDocumentHandler_Delete(t *testing.T) {
	uploads := new(mocks.MockUploadService)
	h := handler.NewDocumentHandler(uploads)
	userID, docID := uuid.New(), uuid.New()

	uploads.On("Delete", mock.Anything, userID, docID).Return(domain.ErrDocumentNotFound)

	c, w := newTestContext(http.MethodDelete, "/api/v1/documents/"+docID.String(), nil, userID)
	c.Params = gin.Params{{Key: "id", Value: docID.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	uploads.AssertExpectations(t)
}
