package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"depotpos/internal/apierror"
	"depotpos/internal/middleware"
	"depotpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal must be registered as numeric or tags like min=0
	// panic with "Bad field type decimal.Decimal".
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report violations under the json field name the client actually sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate binds the JSON body and runs the validator tags. On failure
// it writes the error response and returns false; the caller must bail out
// without writing anything else.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// callerTenant extracts the tenant UUID from the JWT claims. On failure it
// writes a 403 and returns false; the caller must bail out. Routes reaching
// a handler always passed JWTAuth, so a missing or unparseable tenant means
// a malformed token and is treated as forbidden.
func callerTenant(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
		return uuid.Nil, false
	}
	tid, err := uuid.Parse(claims.TenantID)
	if err != nil {
		c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
		return uuid.Nil, false
	}
	return tid, true
}

// requireBodyTenant verifies the tenantId in a request body against the
// caller's claims. Writes a 403 and returns false when they disagree.
func requireBodyTenant(c *gin.Context, tenantID string) bool {
	tid, ok := callerTenant(c)
	if !ok {
		return false
	}
	if tenantID != tid.String() {
		c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
		return false
	}
	return true
}

// tenantForbidden writes a 403 and returns true when err is a cross-tenant
// access attempt. Handlers call it before their own error mapping.
func tenantForbidden(c *gin.Context, err error) bool {
	if errors.Is(err, service.ErrTenantMismatch) {
		c.JSON(http.StatusForbidden, apierror.New("Tenant mismatch"))
		return true
	}
	return false
}

// writeLookupError maps a by-ID read failure: cross-tenant access is a 403,
// anything else a 404.
func writeLookupError(c *gin.Context, err error) {
	if tenantForbidden(c, err) {
		return
	}
	c.JSON(http.StatusNotFound, apierror.New(err.Error()))
}
