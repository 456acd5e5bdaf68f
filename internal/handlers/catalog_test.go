package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestQueryAge(t *testing.T) {
	assert.Nil(t, queryAge(testContext("/")))
	assert.Nil(t, queryAge(testContext("/?age=old")))
	if age := queryAge(testContext("/?age=%2042.5")); assert.NotNil(t, age) {
		assert.Equal(t, 42.5, *age)
	}
}

func TestQuerySelected(t *testing.T) {
	c := testContext("/?selected=a,b&selected=c&selected=,%20d%20")
	assert.Equal(t, []string{"a", "b", "c", "d"}, querySelected(c))
	assert.Empty(t, querySelected(testContext("/")))
}
