package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

func catalogRoutes(products *adaptor.ProductHandler, categories *adaptor.CategoryHandler, g guards) []Route {
	return []Route{
		{http.MethodGet, "/products", mw(g.optional), products.ListProducts},
		{http.MethodGet, "/products/{id}", mw(g.optional), products.GetProduct},
		{http.MethodPost, "/products", mw(g.auth, g.seller), products.CreateProduct},
		{http.MethodPatch, "/products/{id}", mw(g.auth, g.seller), products.UpdateProduct},
		{http.MethodDelete, "/products/{id}", mw(g.auth, g.seller), products.DeleteProduct},
		{http.MethodGet, "/admin/my-products", mw(g.auth, g.seller), products.MyProducts},
		{http.MethodGet, "/admin/products/low-stock", mw(g.auth, g.admin), products.LowStock},

		{http.MethodGet, "/admin/categories", mw(g.auth, g.admin), categories.ListCategories},
		{http.MethodPost, "/admin/categories", mw(g.auth, g.admin), categories.CreateCategory},
		{http.MethodDelete, "/admin/categories/{id}", mw(g.auth, g.admin), categories.DeleteCategory},
	}
}
