package transporthttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsverifier/docs"
)

func serveExplorer(c *gin.Context) {
	if len(docs.ExplorerPage) == 0 || len(docs.OpenAPISpec) == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", docs.ExplorerPage)
}

func serveOpenAPI(c *gin.Context) {
	if len(docs.OpenAPISpec) == 0 {
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, "application/yaml", docs.OpenAPISpec)
}
