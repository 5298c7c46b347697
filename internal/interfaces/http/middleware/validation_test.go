package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cabinetquote/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemBody struct {
	Name  string           `json:"name" binding:"required,max=5"`
	Kind  string           `json:"kind" binding:"omitempty,oneof=discount surcharge"`
	Price *decimal.Decimal `json:"price" binding:"omitempty,gte=0"`
}

func bindRouter() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/bind", func(c *gin.Context) {
		var body itemBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(body.Name))
	})
	return r
}

func postBind(t *testing.T, body string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	bindRouter().ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w, resp := postBind(t, `{"kind":"rebate"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Must be one of: discount surcharge", fields["kind"])
}

func TestHandleValidationError_DecimalBounds(t *testing.T) {
	w, resp := postBind(t, `{"name":"base","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "price", resp.Error.Details[0].Field)

	w, _ = postBind(t, `{"name":"base","price":"0"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w, resp := postBind(t, `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestTranslateValidationErrors_NonValidation(t *testing.T) {
	assert.Nil(t, TranslateValidationErrors(assert.AnError))
}
