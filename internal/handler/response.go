package handler

import (
	"github.com/flicky/printdrop/internal/dto"
	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/service"
)

func toArtistResponse(a *model.Artist) dto.ArtistResponse {
	return dto.ArtistResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		DisplayName:    a.DisplayName,
		Bio:            a.Bio,
		Specialty:      a.Specialty,
		PortfolioURL:   a.PortfolioURL,
		SocialLinks:    a.SocialLinks,
		IsVerified:     a.IsVerified,
		CommissionRate: a.CommissionRate,
		CreatedAt:      a.CreatedAt,
	}
}

func toDesignResponse(d *model.Design) dto.DesignResponse {
	return dto.DesignResponse{
		ID:            d.ID,
		ArtistID:      d.ArtistID,
		Title:         d.Title,
		Description:   d.Description,
		ImageURL:      d.ImageURL,
		Price:         d.Price,
		Tags:          d.Tags,
		IsPublic:      d.IsPublic,
		DownloadCount: d.DownloadCount,
		CreatedAt:     d.CreatedAt,
	}
}

func toCartItemResponse(item *model.CartItem) dto.CartItemResponse {
	return dto.CartItemResponse{
		ID:            item.ID,
		ProductID:     item.ProductID,
		DesignID:      item.DesignID,
		Quantity:      item.Quantity,
		Customization: item.Customization,
		Price:         item.Price,
		CreatedAt:     item.CreatedAt,
	}
}

func toCartLineResponse(l *model.CartLine) dto.CartLineResponse {
	return dto.CartLineResponse{
		CartItemResponse: toCartItemResponse(&l.CartItem),
		ProductName:      l.ProductName,
		ProductImage:     l.ProductImage,
		DesignTitle:      l.DesignTitle,
		DesignImage:      l.DesignImage,
		LineTotal:        l.LineTotal().StringFixed(2),
	}
}

func toSummaryResponse(s service.Summary) dto.CartSummaryResponse {
	return dto.CartSummaryResponse{
		ItemCount: s.ItemCount,
		Subtotal:  s.Subtotal.StringFixed(2),
		Shipping:  s.Shipping.StringFixed(2),
		Total:     s.Total.StringFixed(2),
	}
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			DesignID:         item.DesignID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice.StringFixed(2),
			Customization:    item.Customization,
			ArtistCommission: item.ArtistCommission.StringFixed(2),
		})
	}
	return dto.OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		ShippingAmount:  o.ShippingAmount.StringFixed(2),
		ShippingAddress: o.ShippingAddress,
		PaymentStatus:   o.PaymentStatus,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
