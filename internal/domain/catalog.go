package domain

import "github.com/shopspring/decimal"

type ShopInfo struct {
	CoverImage        string `json:"coverImage"`
	LogoImage         string `json:"logoImage"`
	Name              string `json:"name"`
	KitchenCategories string `json:"kitchenCategories"`
	Rating            string `json:"rating"`
	CookingTime       string `json:"cookingTime"`
	Status            string `json:"status"`
}

type Category struct {
	ID              string `json:"id"`
	Icon            string `json:"icon"`
	Name            string `json:"name"`
	BackgroundColor string `json:"backgroundColor"`
}

type Variant struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Cost   decimal.Decimal `json:"cost"`
	Weight string          `json:"weight,omitempty"`
}

type MenuItem struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Image       string    `json:"image"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Discount    int       `json:"discount,omitempty"`
	Gallery     []string  `json:"gallery,omitempty"`
	Variants    []Variant `json:"variants"`
}
