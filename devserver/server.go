// Package devserver is an in-memory stand-in for the invoice and contacts API,
// used for local development and by the client tests.
package devserver

import (
	"net/http"
	"strings"
	"time"

	"payme-tui/api"
	"payme-tui/helpers"

	"github.com/gin-gonic/gin"
)

type detail struct {
	Msg string `json:"msg"`
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

func invalid(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []detail{{Msg: msg}}})
}

// walletAuth requires a well-formed X-Wallet-Address on mutating requests.
func walletAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}
		wallet := c.GetHeader(api.WalletHeader)
		if wallet == "" {
			abort(c, http.StatusUnauthorized, "X-Wallet-Address header required")
			return
		}
		if !helpers.IsValidEthAddress(wallet) {
			abort(c, http.StatusBadRequest, "invalid wallet address format")
			return
		}
		c.Set("wallet", strings.ToLower(wallet))
		c.Next()
	}
}

// NewRouter wires the API routes onto a gin engine.
func NewRouter(store *Store, opts ...Option) *gin.Engine {
	o := routerOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if o.logger != nil {
		r.Use(requestLogger(o.logger))
	}
	if o.limit > 0 {
		r.Use(newIPLimiter(o.limit, o.window, o.now).middleware())
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	g := r.Group("/api", walletAuth())
	g.POST("/invoices", func(c *gin.Context) {
		var req api.CreateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalid(c, "malformed request body")
			return
		}
		if !helpers.IsValidEthAddress(req.MerchantAddress) {
			invalid(c, "invalid merchant address")
			return
		}
		if !helpers.IsValidEthAddress(req.TokenAddress) {
			invalid(c, "invalid token address")
			return
		}
		if !helpers.IsPositiveAmount(req.Amount.String()) {
			invalid(c, "amount must be greater than 0")
			return
		}
		c.JSON(http.StatusCreated, store.CreateInvoice(req))
	})
	g.GET("/invoices", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Invoices(c.Query("wallet")))
	})
	g.GET("/invoices/:id", func(c *gin.Context) {
		inv, ok := store.Invoice(c.Param("id"))
		if !ok {
			abort(c, http.StatusNotFound, "invoice not found")
			return
		}
		c.JSON(http.StatusOK, inv)
	})
	g.DELETE("/invoices/:id", func(c *gin.Context) {
		inv, ok := store.Invoice(c.Param("id"))
		if ok && !strings.EqualFold(inv.MerchantAddress, c.GetString("wallet")) {
			abort(c, http.StatusForbidden, "only the merchant can delete an invoice")
			return
		}
		store.DeleteInvoice(c.Param("id"))
		c.Status(http.StatusNoContent)
	})
	g.POST("/invoices/:id/pay", func(c *gin.Context) {
		var req api.MarkPaidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalid(c, "malformed request body")
			return
		}
		inv, ok := store.MarkPaid(c.Param("id"), req)
		if !ok {
			abort(c, http.StatusNotFound, "invoice not found")
			return
		}
		c.JSON(http.StatusOK, inv)
	})

	g.GET("/contacts", func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Contacts(c.Query("wallet")))
	})
	g.GET("/contacts/lookup", func(c *gin.Context) {
		email, phone := c.Query("email"), c.Query("phone")
		if email == "" && phone == "" {
			invalid(c, "email or phone is required")
			return
		}
		contact, ok := store.Lookup(c.Query("wallet"), email, phone)
		if !ok {
			c.JSON(http.StatusOK, api.LookupResult{Found: false})
			return
		}
		c.JSON(http.StatusOK, api.LookupResult{Found: true, Contact: &contact})
	})
	g.POST("/contacts", func(c *gin.Context) {
		var req api.CreateContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			invalid(c, "malformed request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			invalid(c, "name is required")
			return
		}
		if !helpers.IsValidEthAddress(req.WalletAddress) {
			invalid(c, "invalid wallet address")
			return
		}
		if req.OwnerWallet == "" {
			req.OwnerWallet = c.GetString("wallet")
		}
		c.JSON(http.StatusCreated, store.CreateContact(req))
	})
	g.DELETE("/contacts/:id", func(c *gin.Context) {
		contact, ok := store.Contact(c.Param("id"))
		if ok && !strings.EqualFold(contact.OwnerWallet, c.GetString("wallet")) {
			abort(c, http.StatusForbidden, "only the owner can delete a contact")
			return
		}
		store.DeleteContact(c.Param("id"))
		c.Status(http.StatusNoContent)
	})

	return r
}
