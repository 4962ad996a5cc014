package match_start

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/OshanDAS/algorthm-battle-arena-sub000/models"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/models/postgres"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/repositories"
	"github.com/OshanDAS/algorthm-battle-arena-sub000/services/chat"
	lobbysync "github.com/OshanDAS/algorthm-battle-arena-sub000/services/sync"
)

var (
	// ErrForbidden: the caller is authenticated but does not own the lobby.
	ErrForbidden = errors.New("only the host can start the match")
	// ErrLobbyNotFound: the lobby id does not resolve.
	ErrLobbyNotFound = errors.New("lobby not found")
	// ErrLobbyNotOpen: the lobby already started or was closed.
	ErrLobbyNotOpen = errors.New("lobby is not open")
)

// Broadcaster fans an event out to every current member of a room.
type Broadcaster interface {
	Broadcast(room, event string, payload interface{}) int
}

// Coordinator is the only component that writes to both the lobby and
// match stores and triggers a room broadcast, which makes it the
// synchronization point for starting a match.
type Coordinator struct {
	Lobbies *repositories.LobbyRepository
	Matches *repositories.MatchRepository
	Locks   *lobbysync.LockManager
	Rooms   Broadcaster
	Chat    chat.Service
}

func NewCoordinator(lobbies *repositories.LobbyRepository, matches *repositories.MatchRepository,
	locks *lobbysync.LockManager, rooms Broadcaster, chatSvc chat.Service) *Coordinator {
	return &Coordinator{Lobbies: lobbies, Matches: matches, Locks: locks, Rooms: rooms, Chat: chatSvc}
}

// StartMatch runs the gated start sequence: host check, Open-status
// precondition, match creation, one StartAtUtc computed on the server
// clock, status transition, one broadcast. Each gate aborts the whole
// operation; side effects already committed before a later failure
// stand (no rollback).
//
// StartAtUtc is computed exactly once and the same event value is
// delivered to every room member, so all clients count down to the
// identical instant.
func (co *Coordinator) StartMatch(lobbyID int, callerEmail string, req models.StartMatchRequest) (*models.MatchStarted, error) {
	if callerEmail == "" {
		return nil, ErrForbidden
	}

	isHost, err := co.Lobbies.IsHost(lobbyID, callerEmail)
	if err != nil {
		return nil, err
	}
	if !isHost {
		return nil, ErrForbidden
	}

	// Serialize with joins and concurrent starts on the same lobby
	co.Locks.Lock(lobbyID)
	defer co.Locks.Unlock(lobbyID)

	lobby, err := co.Lobbies.GetLobbyByID(lobbyID)
	if err != nil {
		return nil, err
	}
	if lobby == nil {
		return nil, ErrLobbyNotFound
	}
	if lobby.Status != postgres.LobbyStatusOpen {
		return nil, ErrLobbyNotOpen
	}

	match, err := co.Matches.CreateMatch(lobbyID, req.ProblemIds)
	if err != nil {
		return nil, err
	}

	bufferSec := req.PreparationBufferSec
	if bufferSec < 1 {
		bufferSec = 1
	}
	startAtUtc := time.Now().UTC().Add(time.Duration(bufferSec) * time.Second)

	ok, err := co.Lobbies.UpdateLobbyStatus(lobbyID, postgres.LobbyStatusInProgress)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLobbyNotOpen
	}

	// Best-effort: a failed chat bootstrap never aborts the start
	if co.Chat != nil {
		emails := make([]string, 0, len(lobby.Participants))
		for _, p := range lobby.Participants {
			emails = append(emails, p.ParticipantEmail)
		}
		if err := co.Chat.CreateConversation(chat.KindMatch, match.MatchID, emails); err != nil {
			log.Printf("[START] failed to create match conversation for lobby %d: %v", lobbyID, err)
		}
	}

	event := &models.MatchStarted{
		MatchID:     match.MatchID,
		ProblemIds:  req.ProblemIds,
		StartAtUtc:  startAtUtc,
		DurationSec: req.DurationSec,
		SentAtUtc:   time.Now().UTC(),
	}

	delivered := co.Rooms.Broadcast(strconv.Itoa(lobbyID), "match_started", event)
	log.Printf("[START] match %d broadcast to lobby %d (%d connections)", match.MatchID, lobbyID, delivered)

	return event, nil
}
