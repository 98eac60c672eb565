package migration

import (
	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	chatdomain "github.com/smallbiznis/showroom/internal/chat/domain"
	customerdomain "github.com/smallbiznis/showroom/internal/customer/domain"
	footfalldomain "github.com/smallbiznis/showroom/internal/footfall/domain"
	orderdomain "github.com/smallbiznis/showroom/internal/order/domain"
	productdomain "github.com/smallbiznis/showroom/internal/product/domain"
	sharelinkdomain "github.com/smallbiznis/showroom/internal/sharelink/domain"
	solddomain "github.com/smallbiznis/showroom/internal/sold/domain"
	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
)

// Models lists every persisted type, in the order the SQL migrations create
// their tables.
func Models() []any {
	return []any{
		&authdomain.User{},
		&footfalldomain.Record{},
		&productdomain.Product{},
		&customerdomain.Customer{},
		&chatdomain.Chat{},
		&solddomain.Sale{},
		&videodomain.Video{},
		&sharelinkdomain.Link{},
		&sharelinkdomain.Favorite{},
		&orderdomain.Order{},
		&orderdomain.Category{},
		&orderdomain.Salesperson{},
		&orderdomain.StatusOption{},
		&orderdomain.Karigar{},
	}
}
