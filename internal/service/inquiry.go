package service

import (
	"context"
	"errors"
	"imovelhub/internal/repository"
	"imovelhub/pkg/customerror"
	"imovelhub/pkg/inquiry"
	"imovelhub/pkg/property"
	"imovelhub/pkg/user"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type InquiryServiceI interface {
	Connect(ctx *gin.Context, user *user.User, authErr error) error
	ServeWebSocket(connection *websocket.Conn)
	SendInquiry(propertyId uuid.UUID, sender *user.User, message string) (*inquiry.Inquiry, error)
	GetInquiries(user *user.User) ([]inquiry.Inquiry, error)
	KeepAlive(stop <-chan struct{})
}

type InquiryService struct {
	Connections  sync.Map
	InquiryRepo  repository.InquiryRepositoryI
	PropertyRepo repository.PropertyRepositoryI
	UserRepo     repository.UserRepositoryI
	SettingsRepo repository.SettingsRepositoryI
	Upgrader     websocket.Upgrader
	Host         string
	Port         string
	now          func() time.Time
}

func NewInquiryService(
	inquiryRepo repository.InquiryRepositoryI,
	propertyRepo repository.PropertyRepositoryI,
	userRepo repository.UserRepositoryI,
	settingsRepo repository.SettingsRepositoryI,
	host string,
	port string,
	now func() time.Time,
) InquiryServiceI {
	return &InquiryService{
		Connections:  sync.Map{},
		InquiryRepo:  inquiryRepo,
		PropertyRepo: propertyRepo,
		UserRepo:     userRepo,
		SettingsRepo: settingsRepo,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		Host: host,
		Port: port,
		now:  now,
	}
}

func (s *InquiryService) Connect(ctx *gin.Context, user *user.User, authErr error) error {
	connection, err := s.Upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		return customerror.NewError("inquiryService.Connect", s.Host+":"+s.Port, err.Error())
	}
	if errors.Is(authErr, jwt.ErrTokenExpired) {
		connection.WriteJSON(gin.H{
			"status": http.StatusUnauthorized,
			"body":   gin.H{},
			"error":  "token expired",
		})
	}
	if authErr != nil {
		connection.Close()
		return customerror.NewError("inquiryService.Connect", s.Host+":"+s.Port, authErr.Error())
	}
	s.Connections.Store(connection, &subscriber{user: user})
	go s.ServeWebSocket(connection)
	return nil
}

// subscriber serializes writes to one connection.
type subscriber struct {
	user *user.User
	mu   sync.Mutex
}

// refresh reloads the account behind a connection. It reports false once the account is blocked
// or its tokens were revoked, so the connection stops speaking for it.
func (s *InquiryService) refresh(sub *subscriber) (*user.User, bool) {
	sub.mu.Lock()
	snapshot := sub.user
	sub.mu.Unlock()
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	current, err := s.UserRepo.GetUser(ctx, snapshot.UUID)
	if err != nil {
		if !errors.Is(err, customerror.ErrNotFound) {
			log.Print(customerror.Wrap(err, "InquiryService.refresh").Error())
		}
		return nil, false
	}
	if current.IsBlocked() || current.JWTVersion != snapshot.JWTVersion {
		return nil, false
	}
	sub.mu.Lock()
	sub.user = current
	sub.mu.Unlock()
	return current, true
}

func (sub *subscriber) write(connection *websocket.Conn, value any) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return connection.WriteJSON(value)
}

type WebsocketMessage struct {
	PropertyId string `json:"property_id"`
	Message    string `json:"message"`
}

func (s *InquiryService) drop(connection *websocket.Conn) {
	connection.Close()
	s.Connections.Delete(connection)
}

// ServeWebSocket reads inquiries sent over the socket until the peer goes away.
func (s *InquiryService) ServeWebSocket(connection *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in ServeWebSocket: %v", r)
		}
		s.drop(connection)
	}()
	for {
		var message WebsocketMessage
		if err := connection.ReadJSON(&message); err != nil {
			return
		}
		value, ok := s.Connections.Load(connection)
		if !ok {
			return
		}
		sender := value.(*subscriber)
		current, ok := s.refresh(sender)
		if !ok {
			sender.write(connection, gin.H{"status": http.StatusUnauthorized, "body": gin.H{}, "error": "token invalid"})
			return
		}
		propertyId, err := uuid.Parse(message.PropertyId)
		if err != nil {
			sender.write(connection, gin.H{"status": http.StatusBadRequest, "body": gin.H{}, "error": "invalid property id"})
			continue
		}
		if _, err := s.SendInquiry(propertyId, current, message.Message); err != nil {
			log.Print(err.Error())
			sender.write(connection, gin.H{"status": http.StatusBadRequest, "body": gin.H{}, "error": err.Error()})
		}
	}
}

// SendInquiry routes a message about a visible listing to its owner, or to the admin inbox
// when the listing's contact is handled by the administration.
func (s *InquiryService) SendInquiry(propertyId uuid.UUID, sender *user.User, message string) (*inquiry.Inquiry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, customerror.ValidationErrors{"message": "field is required"}
	}
	if len(message) > inquiry.MaxLength {
		return nil, customerror.ValidationErrors{"message": "message is too long"}
	}
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	found, err := s.PropertyRepo.GetProperty(ctx, propertyId)
	if err != nil {
		return nil, customerror.Wrap(err, "InquiryService.SendInquiry")
	}
	if !found.IsPubliclyVisible(s.now()) {
		return nil, customerror.ErrNotFound
	}
	if found.OwnerId == sender.UUID {
		return nil, customerror.ErrForbidden
	}
	created := &inquiry.Inquiry{
		Id:         uuid.New(),
		PropertyId: propertyId,
		SenderId:   sender.UUID,
		Message:    message,
		CreatedAt:  s.now(),
	}
	current, err := loadSettings(ctx, s.SettingsRepo)
	if err != nil {
		return nil, customerror.Wrap(err, "InquiryService.SendInquiry")
	}
	if found.ContactOverride == property.ContactAdmin {
		created.AdminInbox = true
		created.RecipientPhone = current.AdminContactPhone
	} else {
		created.RecipientId = found.OwnerId
		owner, err := s.UserRepo.GetUser(ctx, found.OwnerId)
		if err != nil {
			return nil, customerror.Wrap(err, "InquiryService.SendInquiry")
		}
		created.RecipientPhone = property.ContactPhone(*found, owner.Phone, current.AdminContactPhone)
	}
	if err := s.InquiryRepo.InsertInquiry(ctx, created); err != nil {
		return nil, customerror.Wrap(err, "InquiryService.SendInquiry")
	}
	s.push(created)
	return created, nil
}

// push delivers the inquiry to every connected recipient.
func (s *InquiryService) push(message *inquiry.Inquiry) {
	s.Connections.Range(func(key, value any) bool {
		connection := key.(*websocket.Conn)
		receiver := value.(*subscriber)
		current, ok := s.refresh(receiver)
		if !ok {
			s.drop(connection)
			return true
		}
		if current.UUID != message.RecipientId && !(message.AdminInbox && current.IsAdmin()) {
			return true
		}
		if err := receiver.write(connection, message); err != nil {
			s.drop(connection)
		}
		return true
	})
}

func (s *InquiryService) GetInquiries(user *user.User) ([]inquiry.Inquiry, error) {
	ctx, close := context.WithTimeout(context.Background(), time.Minute)
	defer close()
	inquiries, err := s.InquiryRepo.GetInquiries(ctx, user.UUID, user.IsAdmin())
	if err != nil {
		return []inquiry.Inquiry{}, customerror.Wrap(err, "InquiryService.GetInquiries")
	}
	return inquiries, nil
}

// KeepAlive pings every connection and closes the ones that stop answering.
func (s *InquiryService) KeepAlive(stop <-chan struct{}) {
	var deadCandidates sync.Map
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		deadCandidates.Range(func(key, value any) bool {
			if _, ok := s.Connections.Load(key); !ok {
				deadCandidates.Delete(key)
				return true
			}
			retries := value.(int)
			if retries > 10 {
				s.drop(key.(*websocket.Conn))
				deadCandidates.Delete(key)
			}
			return true
		})
		s.Connections.Range(func(key, value any) bool {
			connection := key.(*websocket.Conn)
			err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			if err != nil {
				retries, _ := deadCandidates.LoadOrStore(key, 0)
				deadCandidates.Store(key, retries.(int)+1)
				return true
			}
			deadCandidates.Delete(key)
			return true
		})
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}
