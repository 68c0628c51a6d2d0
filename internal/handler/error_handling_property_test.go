package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Malformed request bodies must always produce the standard error body with
// a VALIDATION_ERROR code, before any service code runs.
func TestProperty_ErrorResponseStructure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	logger := zap.NewNop()

	properties.Property("all binding errors follow the standard structure with code and message", prop.ForAll(
		func(errorScenario string) bool {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, router := gin.CreateTestContext(w)

			var body string
			switch errorScenario {
			case "invalid_json_goal":
				handler := &GoalHandler{logger: logger}
				router.POST("/test", handler.CreateGoal)
				body = `{invalid json`

			case "missing_target_goal":
				handler := &GoalHandler{logger: logger}
				router.POST("/test", handler.CreateGoal)
				body = `{"goal_type":"daily_steps"}`

			case "missing_progress_value":
				handler := &GoalHandler{logger: logger}
				router.PUT("/test", handler.UpdateProgress)
				body = `{}`

			case "invalid_json_activity":
				handler := &ActivityHandler{logger: logger}
				router.POST("/test", handler.LogActivity)
				body = `{"activity_type": }`

			case "wrong_json_type":
				handler := &ActivityHandler{logger: logger}
				router.POST("/test", handler.LogActivity)
				body = `[1,2,3]`

			default:
				return true
			}

			method := "POST"
			if errorScenario == "missing_progress_value" {
				method = "PUT"
			}
			c.Request = httptest.NewRequest(method, "/test", bytes.NewBufferString(body))
			c.Request.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, c.Request)

			if w.Code != http.StatusBadRequest {
				t.Logf("Scenario %s: Expected status 400, got %d", errorScenario, w.Code)
				return false
			}

			var errorResp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errorResp); err != nil {
				t.Logf("Scenario %s: Failed to parse error response: %v, body: %s", errorScenario, err, w.Body.String())
				return false
			}

			if errorResp.Code != "VALIDATION_ERROR" {
				t.Logf("Scenario %s: Expected error code 'VALIDATION_ERROR', got '%s'", errorScenario, errorResp.Code)
				return false
			}

			if errorResp.Message == "" {
				t.Logf("Scenario %s: Error response missing 'message' field", errorScenario)
				return false
			}

			return true
		},
		gen.OneConstOf(
			"invalid_json_goal",
			"missing_target_goal",
			"missing_progress_value",
			"invalid_json_activity",
			"wrong_json_type",
		),
	))

	properties.TestingRun(t)
}
