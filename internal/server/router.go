package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moajmalnk/faisytkd/internal/api"
)

// NewRouter wires the API routes onto a gin engine.
func NewRouter(store Store, cache Cache) *gin.Engine {
	h := NewHandler(store, cache)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	r.GET(api.HealthPath, h.healthCheck)

	r.GET(api.AccountsPath, h.getAccounts)
	r.POST(api.AccountsPath, h.addAccount)
	r.PUT(api.AccountsPath+"/:id", h.updateAccount)
	r.DELETE(api.AccountsPath+"/:id", h.deleteAccount)

	r.GET(api.CategoriesPath, h.getCategories)
	r.POST(api.CategoriesPath, h.addCategory)
	r.PUT(api.CategoriesPath+"/:id", h.updateCategory)
	r.DELETE(api.CategoriesPath+"/:id", h.deleteCategory)

	r.GET(api.TransactionsPath, h.getTransactions)
	r.POST(api.TransactionsPath, h.addTransaction)
	r.PUT(api.TransactionsPath+"/:id", h.updateTransaction)
	r.DELETE(api.TransactionsPath+"/:id", h.deleteTransaction)
	r.POST(api.TransactionsPath+"/:id"+api.CompleteSuffix, h.completeTransaction)

	r.GET(api.SummaryPath, h.getSummary)

	return r
}
