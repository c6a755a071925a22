package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/ngooning-backend/internal/data/repos"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/apierr"
	"github.com/yungbote/ngooning-backend/internal/platform/dbctx"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

const maxMessageLength = 4000

type SocialService interface {
	ListGroups(dbc dbctx.Context, limit, offset int) ([]*types.Group, error)
	GetGroup(dbc dbctx.Context, groupID uuid.UUID) (*GroupDetail, error)
	CreateGroup(dbc dbctx.Context, in CreateGroupInput) (*types.Group, error)
	JoinGroup(dbc dbctx.Context, groupID uuid.UUID) (*types.GroupMembership, error)
	IsMember(dbc dbctx.Context, groupID uuid.UUID) (bool, error)

	ListMessages(dbc dbctx.Context, groupID uuid.UUID, limit int) ([]*MessageView, error)
	PostMessage(dbc dbctx.Context, groupID uuid.UUID, content string) (*MessageView, error)

	ListUpcomingEvents(dbc dbctx.Context, limit int) ([]*types.Event, error)
	CreateEvent(dbc dbctx.Context, in CreateEventInput) (*types.Event, error)
}

type CreateGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	IsPrivate   bool   `json:"is_private"`
}

type CreateEventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	GroupID     *uuid.UUID `json:"group_id"`
}

type MemberView struct {
	*types.GroupMembership
	User *types.UserSummary `json:"user,omitempty"`
}

type GroupDetail struct {
	Group   *types.Group  `json:"group"`
	Members []*MemberView `json:"members"`
}

type MessageView struct {
	*types.Message
	Sender *types.UserSummary `json:"sender,omitempty"`
}

type socialService struct {
	db             *gorm.DB
	log            *logger.Logger
	users          UserService
	userRepo       repos.UserRepo
	groupRepo      repos.GroupRepo
	membershipRepo repos.MembershipRepo
	eventRepo      repos.EventRepo
	messageRepo    repos.MessageRepo
	notifier       SocialNotifier
	now            func() time.Time
}

func NewSocialService(
	db *gorm.DB,
	log *logger.Logger,
	users UserService,
	userRepo repos.UserRepo,
	groupRepo repos.GroupRepo,
	membershipRepo repos.MembershipRepo,
	eventRepo repos.EventRepo,
	messageRepo repos.MessageRepo,
	notifier SocialNotifier,
) SocialService {
	return &socialService{
		db:             db,
		log:            log.With("service", "SocialService"),
		users:          users,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		eventRepo:      eventRepo,
		messageRepo:    messageRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (ss *socialService) ListGroups(dbc dbctx.Context, limit, offset int) ([]*types.Group, error) {
	if _, err := currentUserID(dbc.Ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return ss.groupRepo.List(dbc, limit, offset)
}

func (ss *socialService) GetGroup(dbc dbctx.Context, groupID uuid.UUID) (*GroupDetail, error) {
	if _, err := currentUserID(dbc.Ctx); err != nil {
		return nil, err
	}

	var (
		group       *types.Group
		memberships []*types.GroupMembership
	)
	g, gctx := errgroup.WithContext(dbc.Ctx)
	g.Go(func() error {
		var err error
		group, err = ss.groupRepo.GetByID(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, groupID)
		return err
	})
	g.Go(func() error {
		var err error
		memberships, err = ss.membershipRepo.ListByGroup(dbctx.Context{Ctx: gctx, Tx: dbc.Tx}, groupID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, repoError(err, "group")
	}

	members := make([]*MemberView, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, &MemberView{GroupMembership: m, User: m.User.Summary()})
	}
	return &GroupDetail{Group: group, Members: members}, nil
}

func (ss *socialService) CreateGroup(dbc dbctx.Context, in CreateGroupInput) (*types.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.BadRequest("invalid_group_name", "name is required")
	}
	me, err := ss.users.GetMe(dbc)
	if err != nil {
		return nil, err
	}

	group := &types.Group{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Avatar:      strings.TrimSpace(in.Avatar),
		IsPrivate:   in.IsPrivate,
		CreatedByID: me.ID,
	}
	err = ss.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if _, err := ss.groupRepo.Create(txc, group); err != nil {
			return err
		}
		_, err := ss.membershipRepo.Create(txc, &types.GroupMembership{
			GroupID: group.ID,
			UserID:  me.ID,
			Role:    types.GroupRoleOwner,
		})
		return err
	})
	if err != nil {
		return nil, repoError(err, "group")
	}
	group.MemberCount = 1
	return group, nil
}

func (ss *socialService) JoinGroup(dbc dbctx.Context, groupID uuid.UUID) (*types.GroupMembership, error) {
	me, err := ss.users.GetMe(dbc)
	if err != nil {
		return nil, err
	}
	if _, err := ss.groupRepo.GetByID(dbc, groupID); err != nil {
		return nil, repoError(err, "group")
	}
	m, err := ss.membershipRepo.Create(dbc, &types.GroupMembership{
		GroupID: groupID,
		UserID:  me.ID,
		Role:    types.GroupRoleMember,
	})
	if err != nil {
		return nil, repoError(err, "membership")
	}
	return m, nil
}

func (ss *socialService) IsMember(dbc dbctx.Context, groupID uuid.UUID) (bool, error) {
	me, err := currentUserID(dbc.Ctx)
	if err != nil {
		return false, err
	}
	return ss.membershipRepo.IsMember(dbc, groupID, me)
}

func (ss *socialService) requireMember(dbc dbctx.Context, groupID uuid.UUID) (uuid.UUID, error) {
	me, err := currentUserID(dbc.Ctx)
	if err != nil {
		return uuid.Nil, err
	}
	ok, err := ss.membershipRepo.IsMember(dbc, groupID, me)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, apierr.Forbidden("not_a_member", "not a member of this group")
	}
	return me, nil
}

func (ss *socialService) ListMessages(dbc dbctx.Context, groupID uuid.UUID, limit int) ([]*MessageView, error) {
	if _, err := ss.requireMember(dbc, groupID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	msgs, err := ss.messageRepo.ListByGroup(dbc, groupID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, &MessageView{Message: m, Sender: m.Sender.Summary()})
	}
	return out, nil
}

func (ss *socialService) PostMessage(dbc dbctx.Context, groupID uuid.UUID, content string) (*MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierr.BadRequest("invalid_message", "content is required")
	}
	if len(content) > maxMessageLength {
		return nil, apierr.BadRequest("invalid_message", "content exceeds %d characters", maxMessageLength)
	}
	me, err := ss.requireMember(dbc, groupID)
	if err != nil {
		return nil, err
	}

	msg, err := ss.messageRepo.Create(dbc, &types.Message{GroupID: groupID, SenderID: me, Content: content})
	if err != nil {
		return nil, repoError(err, "message")
	}
	view := &MessageView{Message: msg}
	if sender, err := ss.userRepo.GetByID(dbc, me); err == nil {
		view.Sender = sender.Summary()
	}
	ss.notifier.MessageCreated(dbc.Ctx, groupID, view)
	return view, nil
}

func (ss *socialService) ListUpcomingEvents(dbc dbctx.Context, limit int) ([]*types.Event, error) {
	me, err := currentUserID(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return ss.eventRepo.ListUpcoming(dbc, me, ss.now(), limit)
}

func (ss *socialService) CreateEvent(dbc dbctx.Context, in CreateEventInput) (*types.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("invalid_event_title", "title is required")
	}
	if in.StartTime.IsZero() {
		return nil, apierr.BadRequest("invalid_event_time", "start_time is required")
	}
	if in.EndTime != nil && in.EndTime.Before(in.StartTime) {
		return nil, apierr.BadRequest("invalid_event_time", "end_time is before start_time")
	}
	me, err := ss.users.GetMe(dbc)
	if err != nil {
		return nil, err
	}
	if in.GroupID != nil {
		if _, err := ss.requireMember(dbc, *in.GroupID); err != nil {
			return nil, err
		}
	}

	ev := &types.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		StartTime:   in.StartTime.UTC(),
		CreatedByID: me.ID,
		GroupID:     in.GroupID,
	}
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		ev.EndTime = &end
	}
	created, err := ss.eventRepo.Create(dbc, ev)
	if err != nil {
		if errors.Is(err, repos.ErrInvalidReference) {
			return nil, apierr.NotFound("group_not_found", "group not found")
		}
		return nil, repoError(err, "event")
	}
	ss.notifier.EventCreated(dbc.Ctx, me.ID, created)
	return created, nil
}
