package services

import (
	"encoding/json"
	"sort"

	"courselab_backend/internal/apperrors"
	"courselab_backend/internal/models"
	"courselab_backend/internal/repositories"
	"courselab_backend/internal/services/dto"
)

type ProgressService interface {
	GetProgress(userID, courseID string) (*dto.ProgressResponse, error)
	ListProgress(userID string) ([]dto.ProgressResponse, error)
	UpdateProgress(userID string, req *dto.ProgressUpdateRequest) (*dto.ProgressResponse, error)
}

type ProgressServiceImpl struct {
	progressRepo repositories.ProgressRepository
}

func NewProgressService(progressRepo repositories.ProgressRepository) ProgressService {
	return &ProgressServiceImpl{progressRepo: progressRepo}
}

// GetProgress returns the stored row, or a zero-progress response when the
// user has not touched the course yet.
func (s *ProgressServiceImpl) GetProgress(userID, courseID string) (*dto.ProgressResponse, error) {
	progress, err := s.progressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProgressNotFound) {
			return &dto.ProgressResponse{
				CourseID:         courseID,
				CompletedModules: []string{},
			}, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return progressResponse(progress)
}

func (s *ProgressServiceImpl) ListProgress(userID string) ([]dto.ProgressResponse, error) {
	rows, err := s.progressRepo.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.ProgressResponse, 0, len(rows))
	for i := range rows {
		resp, err := progressResponse(&rows[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// UpdateProgress applies a client-reported progress event. Append mode
// unions into the completed set so progress never shrinks; only an explicit
// overwrite replaces it.
func (s *ProgressServiceImpl) UpdateProgress(userID string, req *dto.ProgressUpdateRequest) (*dto.ProgressResponse, error) {
	current, err := s.progressRepo.FindByUserAndCourse(userID, req.CourseID)
	if err != nil && !apperrors.Is(err, repositories.ErrProgressNotFound) {
		return nil, apperrors.InternalError(err)
	}

	var completed []string
	var lastPosition, percent float64
	if current != nil {
		if completed, err = decodeModules(current.CompletedModules); err != nil {
			return nil, apperrors.InternalError(err)
		}
		lastPosition = current.LastPosition
		percent = current.Percent
	}

	switch req.Mode {
	case dto.ProgressModeAppend:
		completed = unionModules(completed, req.ModuleIDs)
		if req.Percent > percent {
			percent = req.Percent
		}
		if req.LastPosition > 0 {
			lastPosition = req.LastPosition
		}
	case dto.ProgressModeOverwrite:
		completed = unionModules(nil, req.ModuleIDs)
		percent = req.Percent
		lastPosition = req.LastPosition
	case dto.ProgressModePosition:
		lastPosition = req.LastPosition
	default:
		return nil, apperrors.NewBadRequestError("Unknown progress mode")
	}

	encoded, err := json.Marshal(completed)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	progress := &models.CourseProgress{
		UserID:           userID,
		CourseID:         req.CourseID,
		CompletedModules: encoded,
		LastPosition:     lastPosition,
		Percent:          percent,
	}
	if current != nil {
		progress.BaseModel = current.BaseModel
	}

	if err := s.progressRepo.Upsert(progress); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.ProgressResponse{
		CourseID:         req.CourseID,
		CompletedModules: completed,
		LastPosition:     lastPosition,
		Percent:          percent,
	}, nil
}

// --- helpers ---

func progressResponse(progress *models.CourseProgress) (*dto.ProgressResponse, error) {
	completed, err := decodeModules(progress.CompletedModules)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ProgressResponse{
		CourseID:         progress.CourseID,
		CompletedModules: completed,
		LastPosition:     progress.LastPosition,
		Percent:          progress.Percent,
	}, nil
}

func decodeModules(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var modules []string
	if err := json.Unmarshal(raw, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func unionModules(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	for _, id := range existing {
		seen[id] = true
	}
	for _, id := range added {
		seen[id] = true
	}

	merged := make([]string, 0, len(seen))
	for id := range seen {
		merged = append(merged, id)
	}
	sort.Strings(merged)
	return merged
}
