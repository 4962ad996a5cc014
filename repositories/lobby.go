package repositories

import (
	"errors"
	"fmt"
	"time"

	models "github.com/OshanDAS/algorthm-battle-arena-sub000/models/postgres"
	lobbysync "github.com/OshanDAS/algorthm-battle-arena-sub000/services/sync"

	"gorm.io/gorm"
)

// allowedPrevious lists the statuses a lobby may transition from, per
// target status. Transitions never go backwards.
var allowedPrevious = map[string][]string{
	models.LobbyStatusInProgress: {models.LobbyStatusOpen},
	models.LobbyStatusClosed:     {models.LobbyStatusOpen, models.LobbyStatusInProgress},
}

// LobbyRepository persists lobbies and their participants. Sequences
// that read lobby state and then write based on it go through the
// shared LockManager so concurrent callers cannot race the check.
type LobbyRepository struct {
	DB    *gorm.DB
	Locks *lobbysync.LockManager
}

func NewLobbyRepository(db *gorm.DB, locks *lobbysync.LockManager) *LobbyRepository {
	return &LobbyRepository{DB: db, Locks: locks}
}

// CreateLobby inserts the lobby row with Status=Open plus the Host
// participant row, and returns the hydrated lobby. The caller must
// supply a unique lobby code.
func (r *LobbyRepository) CreateLobby(name string, maxPlayers int, mode, difficulty, hostEmail, lobbyCode string) (*models.Lobby, error) {
	lobby := models.Lobby{
		LobbyName:  name,
		MaxPlayers: maxPlayers,
		Mode:       mode,
		Difficulty: difficulty,
		HostEmail:  hostEmail,
		LobbyCode:  lobbyCode,
		Status:     models.LobbyStatusOpen,
		IsPublic:   true,
		CreatedAt:  time.Now().UTC(),
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&lobby).Error; err != nil {
			return err
		}
		host := models.LobbyParticipant{
			LobbyID:          lobby.LobbyID,
			ParticipantEmail: hostEmail,
			Role:             models.RoleHost,
			JoinedAt:         time.Now().UTC(),
		}
		return tx.Create(&host).Error
	})
	if err != nil {
		return nil, fmt.Errorf("error creating lobby: %w", err)
	}

	return r.GetLobbyByID(lobby.LobbyID)
}

// GetLobbyByID loads a lobby with its full participant list. A missing
// lobby is (nil, nil), not an error.
func (r *LobbyRepository) GetLobbyByID(lobbyID int) (*models.Lobby, error) {
	var lobby models.Lobby
	err := r.DB.Preload("Participants").Where("lobby_id = ?", lobbyID).First(&lobby).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lobby, nil
}

// GetLobbyByCode loads a lobby by its join code. A missing lobby is
// (nil, nil), not an error.
func (r *LobbyRepository) GetLobbyByCode(lobbyCode string) (*models.Lobby, error) {
	var lobby models.Lobby
	err := r.DB.Preload("Participants").Where("lobby_code = ?", lobbyCode).First(&lobby).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lobby, nil
}

// GetOpenLobbies returns every public lobby with Status=Open, each
// hydrated with its participants.
func (r *LobbyRepository) GetOpenLobbies() ([]models.Lobby, error) {
	var lobbies []models.Lobby
	err := r.DB.Preload("Participants").
		Where("status = ? AND is_public = ?", models.LobbyStatusOpen, true).
		Find(&lobbies).Error
	if err != nil {
		return nil, err
	}
	return lobbies, nil
}

// JoinLobby inserts a Player participant row. It returns false without
// mutating anything when the lobby is missing, not Open, already full
// or the email is already a participant. The whole check-then-insert
// runs under the lobby's lock.
func (r *LobbyRepository) JoinLobby(lobbyID int, email string) (bool, error) {
	r.Locks.Lock(lobbyID)
	defer r.Locks.Unlock(lobbyID)

	lobby, err := r.GetLobbyByID(lobbyID)
	if err != nil {
		return false, err
	}
	if lobby == nil || lobby.Status != models.LobbyStatusOpen || len(lobby.Participants) >= lobby.MaxPlayers {
		return false, nil
	}
	for _, p := range lobby.Participants {
		if p.ParticipantEmail == email {
			return false, nil
		}
	}

	participant := models.LobbyParticipant{
		LobbyID:          lobbyID,
		ParticipantEmail: email,
		Role:             models.RolePlayer,
		JoinedAt:         time.Now().UTC(),
	}
	if err := r.DB.Create(&participant).Error; err != nil {
		return false, err
	}
	return true, nil
}

// LeaveLobby removes the participant row. Removing an email that was
// never a participant still reports true: absence of effect is not an
// error here.
func (r *LobbyRepository) LeaveLobby(lobbyID int, email string) (bool, error) {
	err := r.DB.Where("lobby_id = ? AND participant_email = ?", lobbyID, email).
		Delete(&models.LobbyParticipant{}).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// KickParticipant removes targetEmail from the lobby after re-checking
// that hostEmail actually owns it.
func (r *LobbyRepository) KickParticipant(lobbyID int, hostEmail, targetEmail string) (bool, error) {
	isHost, err := r.IsHost(lobbyID, hostEmail)
	if err != nil {
		return false, err
	}
	if !isHost {
		return false, nil
	}
	return r.LeaveLobby(lobbyID, targetEmail)
}

// IsHost reports whether email owns the lobby.
func (r *LobbyRepository) IsHost(lobbyID int, email string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Lobby{}).
		Where("lobby_id = ? AND host_email = ?", lobbyID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLobbyStatus advances the lobby status. The update is a single
// conditional statement restricted to the statuses the transition is
// allowed from, so a regression (or a lost race) simply affects zero
// rows and reports false.
func (r *LobbyRepository) UpdateLobbyStatus(lobbyID int, status string) (bool, error) {
	previous, ok := allowedPrevious[status]
	if !ok {
		return false, fmt.Errorf("unknown lobby status %q", status)
	}
	res := r.DB.Model(&models.Lobby{}).
		Where("lobby_id = ? AND status IN ?", lobbyID, previous).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CloseLobby moves the lobby to Closed after re-checking host
// ownership. Closed lobbies accept no further joins.
func (r *LobbyRepository) CloseLobby(lobbyID int, hostEmail string) (bool, error) {
	isHost, err := r.IsHost(lobbyID, hostEmail)
	if err != nil {
		return false, err
	}
	if !isHost {
		return false, nil
	}
	return r.UpdateLobbyStatus(lobbyID, models.LobbyStatusClosed)
}

// UpdateLobbyPrivacy toggles the public flag.
func (r *LobbyRepository) UpdateLobbyPrivacy(lobbyID int, isPublic bool) (bool, error) {
	res := r.DB.Model(&models.Lobby{}).
		Where("lobby_id = ?", lobbyID).
		Update("is_public", isPublic)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateLobbyDifficulty changes the lobby difficulty.
func (r *LobbyRepository) UpdateLobbyDifficulty(lobbyID int, difficulty string) (bool, error) {
	res := r.DB.Model(&models.Lobby{}).
		Where("lobby_id = ?", lobbyID).
		Update("difficulty", difficulty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteLobby hard-deletes the lobby and its participants.
func (r *LobbyRepository) DeleteLobby(lobbyID int) (bool, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lobby_id = ?", lobbyID).Delete(&models.LobbyParticipant{}).Error; err != nil {
			return err
		}
		res := tx.Where("lobby_id = ?", lobbyID).Delete(&models.Lobby{})
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, err
	}
	if affected > 0 {
		r.Locks.Release(lobbyID)
	}
	return affected > 0, nil
}
