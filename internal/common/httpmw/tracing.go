package httpmw

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/common/tracing"
)

// Route parameters copied onto the request span. The keys match the ones the
// repository spans use, so a slow move can be followed from HTTP to SQL.
var spanParams = map[string]string{
	"boardId": "board.id",
	"taskId":  "task.id",
}

// OtelTracing opens one span per request named after the matched route. It
// is a no-op until tracing.Init installs an exporter.
func OtelTracing(serverName string) gin.HandlerFunc {
	tracer := tracing.Tracer(serverName)

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route)
		defer span.End()
		span.SetAttributes(requestAttributes(c)...)

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			semconv.HTTPResponseStatusCodeKey.Int(status),
			attribute.Int("http.response.size", c.Writer.Size()),
		)
		// The auth middleware runs after this one and stores the owner on
		// the request it hands on.
		if owner, ok := c.Request.Context().Value(logger.UserIDKey).(string); ok && owner != "" {
			span.SetAttributes(attribute.String("enduser.id", owner))
		}
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
		}
		if status >= 500 {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
	}
}

func requestAttributes(c *gin.Context) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(c.Request.Method),
		semconv.URLPath(c.Request.URL.Path),
	}
	if route := c.FullPath(); route != "" {
		attrs = append(attrs, semconv.HTTPRouteKey.String(route))
	}
	for _, p := range c.Params {
		if key, ok := spanParams[p.Key]; ok && p.Value != "" {
			attrs = append(attrs, attribute.String(key, p.Value))
		}
	}
	return attrs
}
