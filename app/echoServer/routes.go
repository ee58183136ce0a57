package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/SilaSerdar/library-systeem/app/echoServer/controller/auth"
	"github.com/SilaSerdar/library-systeem/app/echoServer/controller/book"
	"github.com/SilaSerdar/library-systeem/app/echoServer/controller/card"
	"github.com/SilaSerdar/library-systeem/app/echoServer/controller/recommendation"
	"github.com/SilaSerdar/library-systeem/app/echoServer/controller/rental"
	"github.com/SilaSerdar/library-systeem/app/echoServer/controller/suggestion"
)

type C struct {
	Auth           *auth.Controller
	Book           *book.Controller
	Rental         *rental.Controller
	Recommendation *recommendation.Controller
	Suggestion     *suggestion.Controller
	Card           *card.Controller
	JWTSecret      string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	// The catalog browse surface and the ISBN lookup are open, matching
	// the catalog kiosk use case.
	pub.GET("/books", c.Book.List)
	pub.GET("/books/search-isbn/:isbn", c.Book.SearchISBN)
	pub.GET("/books/:id", c.Book.Detail)

	// Any authenticated user
	authed := e.Group("/api", JWT(c.JWTSecret), ExtractIdentity())
	authed.GET("/books/search/location", c.Book.SearchLocation)
	authed.GET("/rentals/my-rentals", c.Rental.MyRentals)
	authed.GET("/recommendations", c.Recommendation.ForMe)
	authed.GET("/users/me/card", c.Card.MyCard)

	// Staff only (single role policy, no inline checks in handlers)
	staff := e.Group("/api", JWT(c.JWTSecret), ExtractIdentity(), RequireStaff())
	staff.POST("/books", c.Book.Create)
	staff.PATCH("/books/:id", c.Book.Update)
	staff.DELETE("/books/:id", c.Book.Delete)

	staff.POST("/rentals", c.Rental.Issue)
	staff.GET("/rentals/all", c.Rental.All)
	staff.POST("/rentals/:id/return", c.Rental.Return)

	staff.GET("/purchase-suggestions", c.Suggestion.List)
	staff.POST("/purchase-suggestions", c.Suggestion.Create)
	staff.PATCH("/purchase-suggestions/:id/status", c.Suggestion.UpdateStatus)

	staff.GET("/users/:id/card", c.Card.MemberCard)
}
