package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"crepe_admin/internal/domain"

	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"
)

// maxImageEdge is the largest edge the backend accepts for product images.
// Larger uploads are downscaled before the request is built.
const maxImageEdge = 1024

// Product is one deposit/installment product.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	PeriodMonth int             `json:"periodMonth"`
	Tags        []string        `json:"tags"`
	ImageURL    string          `json:"imageUrl"`
	Suspended   bool            `json:"suspended"`
}

// ProductRegistration is the payload for registering a product. Image and
// optional guide file travel as multipart parts alongside the request JSON.
type ProductRegistration struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rate        decimal.Decimal `json:"rate"`
	PeriodMonth int             `json:"periodMonth"`
	Tags        []string        `json:"tags"`

	ImageName string    `json:"-"`
	Image     io.Reader `json:"-"`
	GuideName string    `json:"-"`
	Guide     io.Reader `json:"-"` // optional
}

// ProductService covers the /bank/products endpoints.
type ProductService struct {
	c *Client
}

// NewProductService creates the product endpoint wrapper.
func NewProductService(c *Client) *ProductService {
	return &ProductService{c: c}
}

// Register uploads a new product. The product image is decoded and, when it
// exceeds the backend's size limit, resized before upload.
func (s *ProductService) Register(ctx context.Context, reg ProductRegistration) error {
	if strings.TrimSpace(reg.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if reg.Image == nil {
		return &domain.ValidationError{Field: "productImage", Reason: "required"}
	}

	imageBytes, err := prepareImage(reg.Image)
	if err != nil {
		return &domain.ValidationError{Field: "productImage", Reason: err.Error()}
	}

	return s.c.doMultipart(ctx, http.MethodPost, "/bank/register/product", func(mw *multipart.Writer) error {
		part, err := mw.CreateFormFile("productImage", reg.ImageName)
		if err != nil {
			return err
		}
		if _, err := part.Write(imageBytes); err != nil {
			return err
		}

		if reg.Guide != nil {
			guidePart, err := mw.CreateFormFile("guideFile", reg.GuideName)
			if err != nil {
				return err
			}
			if _, err := io.Copy(guidePart, reg.Guide); err != nil {
				return err
			}
		}

		reqJSON, err := json.Marshal(reg)
		if err != nil {
			return err
		}
		return mw.WriteField("request", string(reqJSON))
	}, nil)
}

// prepareImage decodes the upload and downscales it when either edge exceeds
// maxImageEdge, re-encoding as PNG.
func prepareImage(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageEdge || bounds.Dy() > maxImageEdge {
		img = imaging.Fit(img, maxImageEdge, maxImageEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// Products fetches the bank's product list.
func (s *ProductService) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/products", nil, nil, &products)
	return products, err
}

// Product fetches one product by id.
func (s *ProductService) Product(ctx context.Context, id int64) (Product, error) {
	var product Product
	err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/bank/products/%d", id), nil, nil, &product)
	return product, err
}

// Suspended fetches products pulled from sale.
func (s *ProductService) Suspended(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/products/suspended", nil, nil, &products)
	return products, err
}

// Tags fetches the available product tag list.
func (s *ProductService) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	err := s.c.doJSON(ctx, http.MethodGet, "/bank/products/tags", nil, nil, &tags)
	return tags, err
}
