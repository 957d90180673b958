// Catalog HTTP handlers: topics, users and the endpoint directory.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-news-backend/internal/domain"
)

// TopicsResponse wraps the topic list.
type TopicsResponse struct {
	Topics []domain.Topic `json:"topics"`
}

// UsersResponse wraps the user list.
type UsersResponse struct {
	Users []domain.User `json:"users"`
}

// EndpointDoc describes one route in the endpoint directory.
type EndpointDoc struct {
	Description   string   `json:"description"`
	Queries       []string `json:"queries,omitempty"`
	ExampleBody   any      `json:"exampleBody,omitempty"`
	ExampleResult any      `json:"exampleResponse,omitempty"`
}

// EndpointsResponse maps "METHOD /path" to its description.
type EndpointsResponse struct {
	Endpoints map[string]EndpointDoc `json:"endpoints"`
}

var endpointDocs = map[string]EndpointDoc{
	"GET /api": {
		Description: "serves a JSON representation of all the available endpoints of the api",
	},
	"GET /api/topics": {
		Description: "serves an array of all topics",
		ExampleResult: gin.H{"topics": []gin.H{
			{"slug": "football", "description": "Footie!"},
		}},
	},
	"GET /api/articles": {
		Description: "serves an array of all articles, newest first by default",
		Queries:     []string{"topic", "sort_by", "order"},
		ExampleResult: gin.H{"articles": []gin.H{{
			"author":        "weegembump",
			"title":         "Seafood substitutions are increasing",
			"article_id":    33,
			"topic":         "cooking",
			"created_at":    "2018-05-30T15:59:13.341Z",
			"votes":         0,
			"comment_count": 6,
		}}},
	},
	"GET /api/articles/:article_id": {
		Description: "serves a single article",
		ExampleResult: gin.H{"article": gin.H{
			"article_id": 1,
			"title":      "Living in the shadow of a great man",
			"topic":      "mitch",
			"author":     "butter_bridge",
			"body":       "I find this existence challenging",
			"created_at": "2020-07-09T20:11:00.000Z",
			"votes":      100,
		}},
	},
	"PATCH /api/articles/:article_id": {
		Description:   "adds inc_votes to the article's votes and serves the updated article",
		ExampleBody:   gin.H{"inc_votes": 1},
		ExampleResult: gin.H{"article": gin.H{"article_id": 1, "votes": 101}},
	},
	"GET /api/articles/:article_id/comments": {
		Description: "serves the comments on an article, newest first",
		ExampleResult: gin.H{"comments": []gin.H{{
			"comment_id": 5,
			"votes":      0,
			"created_at": "2020-11-03T21:00:00.000Z",
			"author":     "icellusedkars",
			"body":       "I hate streaming noses",
		}}},
	},
	"POST /api/articles/:article_id/comments": {
		Description: "adds a comment to an article and serves it; honours Idempotency-Key",
		ExampleBody: gin.H{"username": "butter_bridge", "body": "Great article!"},
		ExampleResult: gin.H{"comment": gin.H{
			"comment_id": 19,
			"article_id": 1,
			"author":     "butter_bridge",
			"votes":      0,
			"created_at": "2020-11-03T21:00:00.000Z",
			"body":       "Great article!",
		}},
	},
	"DELETE /api/comments/:comment_id": {
		Description: "deletes a comment; responds 204 with no body",
	},
	"GET /api/users": {
		Description: "serves an array of all users",
		ExampleResult: gin.H{"users": []gin.H{{
			"username":   "butter_bridge",
			"name":       "jonny",
			"avatar_url": "https://www.healthytherapies.com/wp-content/uploads/2016/06/Lime3.jpg",
		}}},
	},
}

// GetTopics godoc
// @ID       getTopics
// @Summary  List topics
// @Tags     Catalog
// @Produce  json
// @Success  200  {object}  handlers.TopicsResponse
// @Failure  500  {object}  handlers.ErrorResponse
// @Router   /topics [get]
func (h *Handlers) GetTopics(c *gin.Context) {
	items, err := h.catalog.Topics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, TopicsResponse{Topics: items})
}

// GetUsers godoc
// @ID       getUsers
// @Summary  List users
// @Tags     Catalog
// @Produce  json
// @Success  200  {object}  handlers.UsersResponse
// @Failure  500  {object}  handlers.ErrorResponse
// @Router   /users [get]
func (h *Handlers) GetUsers(c *gin.Context) {
	items, err := h.catalog.Users(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, UsersResponse{Users: items})
}

// Endpoints godoc
// @ID       getEndpoints
// @Summary  Describe the API
// @Tags     Catalog
// @Produce  json
// @Success  200  {object}  handlers.EndpointsResponse
// @Router   / [get]
func (h *Handlers) Endpoints(c *gin.Context) {
	ok(c, http.StatusOK, EndpointsResponse{Endpoints: endpointDocs})
}
