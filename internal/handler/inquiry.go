package handler

import (
	"imovelhub/internal/envelope"
	"imovelhub/internal/middlewares"
	"imovelhub/internal/service"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type InquiryHandlerI interface {
	RegisterRoutes(group *gin.RouterGroup)
	Connect(ctx *gin.Context)
	SendInquiry(ctx *gin.Context)
	GetInquiries(ctx *gin.Context)
}

type InquiryHandler struct {
	inquiryService service.InquiryServiceI
	jwtService     service.JWTServiceI
	middlewares    middlewares.MiddlewaresI
}

func NewInquiryHandler(inquiryService service.InquiryServiceI, jwtService service.JWTServiceI, middlewares middlewares.MiddlewaresI) InquiryHandlerI {
	return &InquiryHandler{
		inquiryService: inquiryService,
		jwtService:     jwtService,
		middlewares:    middlewares,
	}
}

func (h *InquiryHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/properties/:id/inquiries", h.middlewares.ValidUser(), h.SendInquiry)
	inquiries := group.Group("/inquiries")
	inquiries.GET("", h.middlewares.ValidUser(), h.GetInquiries)
	inquiries.GET("/websocket", h.Connect)
}

// Connect upgrades to a websocket. Browsers cannot set headers here, so the token comes in the query.
func (h *InquiryHandler) Connect(ctx *gin.Context) {
	user, authErr := h.jwtService.ValidateToken(ctx.Query("token"))
	if err := h.inquiryService.Connect(ctx, user, authErr); err != nil {
		log.Print(err.Error())
	}
}

type SendInquiryRequest struct {
	Message string `json:"message"`
}

func (h *InquiryHandler) SendInquiry(ctx *gin.Context) {
	id, ok := parseId(ctx)
	if !ok {
		return
	}
	var request SendInquiryRequest
	if err := ctx.ShouldBindBodyWithJSON(&request); err != nil {
		envelope.Abort(ctx, http.StatusBadRequest, "invalid data")
		return
	}
	sent, err := h.inquiryService.SendInquiry(id, middlewares.CurrentUser(ctx), request.Message)
	if err != nil {
		envelope.AbortWithError(ctx, err, "InquiryHandler.SendInquiry")
		return
	}
	envelope.OK(ctx, gin.H{"inquiry": sent})
}

func (h *InquiryHandler) GetInquiries(ctx *gin.Context) {
	inquiries, err := h.inquiryService.GetInquiries(middlewares.CurrentUser(ctx))
	if err != nil {
		envelope.AbortWithError(ctx, err, "InquiryHandler.GetInquiries")
		return
	}
	envelope.OK(ctx, gin.H{"inquiries": inquiries})
}
