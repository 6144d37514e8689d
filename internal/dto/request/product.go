package request

// CreateProductRequest is filled from a multipart form; the image part
// is read separately by the handler.
type CreateProductRequest struct {
	Name        string `form:"name" validate:"required,min=1,max=255"`
	Description string `form:"description" validate:"max=5000"`
	Price       string `form:"price" validate:"required,numeric"`
	Category    string `form:"category" validate:"required,min=1,max=100"`
	Stock       int    `form:"stock" validate:"min=0,max=2147483647"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price       *string `json:"price,omitempty" validate:"omitempty,numeric"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Stock       *int    `json:"stock,omitempty" validate:"omitempty,min=0,max=2147483647"`
}

type ProductListRequest struct {
	PaginatedRequest
	Search   string
	Category string
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
