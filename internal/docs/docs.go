// Package docs holds the OpenAPI description served by gin-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in and obtain a bearer token",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/api/dashboard/charts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Monthly and per-category sales series",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ChartsResponse"}}}
            }
        },
        "/api/dashboard/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard figures",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DashboardSummary"}}}
            }
        },
        "/api/movements": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Stock movement audit trail",
                "parameters": [
                    {"type": "string", "description": "Product id", "name": "product_id", "in": "query"},
                    {"type": "string", "description": "sale, sale_reversal, adjustment or import", "name": "kind", "in": "query"},
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/api/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "search", "in": "query"},
                    {"type": "string", "description": "Category", "name": "category", "in": "query"},
                    {"type": "string", "description": "in, low or out", "name": "stock", "in": "query"},
                    {"type": "integer", "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductListResponse"}}}
            }
        },
        "/api/products/sku/{sku}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Look up a product by SKU",
                "parameters": [{"type": "string", "description": "SKU", "name": "sku", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "description": "Product id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/api/sales": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "List sales with totals",
                "parameters": [
                    {"type": "string", "description": "Product name contains", "name": "search", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "startDate", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD", "name": "endDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SaleListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sales"],
                "summary": "Record a sale",
                "parameters": [
                    {"description": "Sale", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordSaleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.SaleResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.APIError"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.StockError"}}
                }
            }
        },
        "/api/suppliers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["suppliers"],
                "summary": "List suppliers",
                "parameters": [
                    {"type": "string", "description": "Name contains", "name": "search", "in": "query"},
                    {"type": "string", "description": "active or inactive", "name": "status", "in": "query"},
                    {"type": "string", "description": "Country", "name": "country", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.SupplierResponse"}}}}
            }
        },
        "/api/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.UserResponse"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "User", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.UserResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/apierror.APIError"}}
                }
            }
        },
        "/products/generate-sku": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Suggest an unused SKU for a product name",
                "parameters": [{"type": "string", "description": "Product name", "name": "name", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        }
    },
    "definitions": {
        "apierror.APIError": {
            "type": "object",
            "properties": {"detail": {"type": "string"}}
        },
        "apierror.StockError": {
            "type": "object",
            "properties": {"detail": {"type": "string"}, "product": {"type": "string"}, "available": {"type": "integer"}}
        },
        "dto.ChartPoint": {
            "type": "object",
            "properties": {"label": {"type": "string"}, "amount": {"type": "number"}}
        },
        "dto.ChartsResponse": {
            "type": "object",
            "properties": {
                "monthlySales": {"type": "array", "items": {"$ref": "#/definitions/dto.ChartPoint"}},
                "salesByCategory": {"type": "array", "items": {"$ref": "#/definitions/dto.ChartPoint"}},
                "success": {"type": "boolean"}
            }
        },
        "dto.CreateUserRequest": {
            "type": "object",
            "required": ["password", "role", "username"],
            "properties": {
                "username": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string", "enum": ["ADMIN", "MANAGER"]}
            }
        },
        "dto.DashboardSummary": {
            "type": "object",
            "properties": {
                "total_products": {"type": "integer"},
                "low_stock": {"type": "integer"},
                "out_of_stock": {"type": "integer"},
                "inventory_value": {"type": "number"},
                "today_sales": {"type": "number"},
                "month_sales": {"type": "number"},
                "total_suppliers": {"type": "integer"},
                "recent_sales": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}},
                "top_sellers": {"type": "array", "items": {"$ref": "#/definitions/dto.TopSeller"}},
                "low_stock_items": {"type": "array", "items": {"$ref": "#/definitions/dto.LowStockItem"}}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "dto.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "user": {"$ref": "#/definitions/dto.UserResponse"}
            }
        },
        "dto.LowStockItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "sku": {"type": "string"},
                "quantity": {"type": "integer"},
                "reorder_level": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "dto.ProductListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.ProductResponse"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"}
            }
        },
        "dto.ProductResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "sku": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "category": {"type": "string"},
                "reorder_level": {"type": "integer"},
                "stock_status": {"type": "string", "enum": ["IN_STOCK", "LOW_STOCK", "OUT_OF_STOCK"]},
                "inventory_value": {"type": "number"},
                "supplier_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.RecordSaleRequest": {
            "type": "object",
            "required": ["product_id"],
            "properties": {
                "product_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "number"},
                "sale_date": {"type": "string", "format": "date-time"},
                "payment_method": {"type": "string"},
                "customer_name": {"type": "string"},
                "customer_email": {"type": "string"}
            }
        },
        "dto.SaleListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/dto.SaleResponse"}},
                "stats": {"$ref": "#/definitions/dto.SaleStats"}
            }
        },
        "dto.SaleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "product_id": {"type": "string"},
                "product_name": {"type": "string"},
                "product_sku": {"type": "string"},
                "product_category": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "number"},
                "total_amount": {"type": "number"},
                "sale_date": {"type": "string"},
                "payment_method": {"type": "string"},
                "customer_name": {"type": "string"},
                "customer_email": {"type": "string"}
            }
        },
        "dto.SaleStats": {
            "type": "object",
            "properties": {
                "total_revenue": {"type": "number"},
                "count": {"type": "integer"},
                "items_sold": {"type": "integer"},
                "average_sale": {"type": "number"}
            }
        },
        "dto.SupplierResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "contact_person": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "country": {"type": "string"},
                "supplier_code": {"type": "string"},
                "is_active": {"type": "boolean"},
                "product_count": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "dto.TopSeller": {
            "type": "object",
            "properties": {
                "product_name": {"type": "string"},
                "product_sku": {"type": "string"},
                "total_sold": {"type": "integer"},
                "revenue": {"type": "number"}
            }
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "active": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Stockroom API",
	Description:      "Inventory management: products, suppliers, sales and reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
