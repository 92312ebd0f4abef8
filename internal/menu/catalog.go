// Package menu は静的なメニューカタログと注文金額の計算を提供する。
// カタログは固定の品目リストであり、単価の正とする。注文の合計金額は
// 常にこのカタログの単価から計算し、クライアントから受け取った単価や
// 合計をそのまま信用することはない。
package menu

import "github.com/minoru/makanai/internal/model"

// Category はメニュー品目の分類を表す。
type Category string

const (
	CategoryBeverages Category = "beverages"
	CategorySnacks    Category = "snacks"
	CategoryMeals     Category = "meals"
	CategoryOthers    Category = "others"
)

// Item はメニューカタログの1品目を表す。
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Rate     int      `json:"rate"`
	Category Category `json:"category"`
}

// catalog は固定のメニューカタログ。
var catalog = []Item{
	{ID: "tea", Name: "Tea", Rate: 5, Category: CategoryBeverages},
	{ID: "coffee", Name: "Coffee", Rate: 15, Category: CategoryBeverages},
	{ID: "nasta", Name: "Nasta", Rate: 9, Category: CategorySnacks},
	{ID: "special", Name: "Special", Rate: 12, Category: CategorySnacks},
	{ID: "lunch", Name: "Lunch", Rate: 50, Category: CategoryMeals},
	{ID: "dinner", Name: "Dinner", Rate: 50, Category: CategoryMeals},
	{ID: "roti", Name: "Roti", Rate: 5, Category: CategoryMeals},
	{ID: "water", Name: "Water", Rate: 20, Category: CategoryBeverages},
	{ID: "biscuit", Name: "Biscuit", Rate: 10, Category: CategorySnacks},
	{ID: "colddrink", Name: "Cold Drink", Rate: 20, Category: CategoryBeverages},
}

// Items はメニューカタログの全品目を返す。
// 返されるスライスはコピーであり、変更してもカタログには影響しない。
func Items() []Item {
	items := make([]Item, len(catalog))
	copy(items, catalog)
	return items
}

// Find は指定IDの品目を返す。見つからない場合はfalseを返す。
func Find(itemID string) (Item, bool) {
	for _, item := range catalog {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}

// ResolveItems は注文品目の単価をカタログから解決して返す。
// カタログに存在しない品目が含まれる場合はMenuItemNotFoundエラーを返す。
// 数量が0以下の品目はInvalidRequestエラーを返す。
func ResolveItems(items []model.OrderItem) ([]model.OrderItem, error) {
	resolved := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		catalogItem, ok := Find(it.ItemID)
		if !ok {
			return nil, model.NewMenuItemNotFoundError(it.ItemID)
		}
		if it.Quantity <= 0 {
			return nil, model.NewInvalidRequestError("数量は1以上で指定してください")
		}
		resolved = append(resolved, model.OrderItem{
			ItemID:   it.ItemID,
			Quantity: it.Quantity,
			Rate:     catalogItem.Rate,
		})
	}
	return resolved, nil
}

// Total は注文品目の合計金額（Σ 数量×単価）を返す。
func Total(items []model.OrderItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity * it.Rate
	}
	return total
}
