package graphql

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	apierrors "github.com/yukikurage/taskflow-api/internal/errors"
	"github.com/yukikurage/taskflow-api/internal/guard"
	"github.com/yukikurage/taskflow-api/internal/middleware"
)

type ginContextKey struct{}

// ginContext recovers the gin context so resolvers that mutate the session
// (signup, login, logout) can reach the session store.
func ginContext(ctx context.Context) (*gin.Context, bool) {
	c, ok := ctx.Value(ginContextKey{}).(*gin.Context)
	return c, ok
}

// Handler returns a gin handler serving the GraphQL endpoint. The resolved
// session identity is carried into resolver contexts through the shared guard
// abstraction, so resolvers never touch the request directly for auth.
func Handler(schema graphql.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Query         string                 `json:"query"`
			OperationName string                 `json:"operationName"`
			Variables     map[string]interface{} `json:"variables"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}

		ctx := guard.NewContext(c.Request.Context(), middleware.CurrentUser(c))
		ctx = context.WithValue(ctx, ginContextKey{}, c)

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			OperationName:  req.OperationName,
			VariableValues: req.Variables,
			Context:        ctx,
		})

		c.JSON(http.StatusOK, result)
	}
}
