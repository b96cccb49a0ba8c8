package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func tracedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	tc := tracing.Context{RequestID: "test", RequestSource: "test"}
	return r.WithContext(context.WithValue(r.Context(), values.ContextTracingKey, tc))
}

func TestWeatherAssistantRejectsBadRegion(t *testing.T) {
	api := &API{}

	tests := []struct {
		name string
		body string
	}{
		{"unknown region", `{"region":"서울","message":"비 와?"}`},
		{"missing region", `{"message":"비 와?"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := api.WeatherAssistant(nil, tracedRequest(t, http.MethodPost, "/chat/weather", tc.body))
			assert.Equal(t, values.BadRequestBody, resp.Status)
			assert.Equal(t, util.StatusCode(values.BadRequestBody), resp.StatusCode)
		})
	}
}
