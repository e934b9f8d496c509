package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"portero-http-service/config"
	"portero-http-service/models"
)

// ErrCallHistoryNotFound is returned when no open call matches a room
var ErrCallHistoryNotFound = errors.New("call history record not found")

// CallStatistics aggregates the call history for the doorman panel
type CallStatistics struct {
	TotalCalls      int64 `json:"total_calls"`
	ConnectedCalls  int64 `json:"connected_calls"`
	MissedCalls     int64 `json:"missed_calls"`
	RejectedCalls   int64 `json:"rejected_calls"`
	AverageDuration int   `json:"average_duration"` // seconds, connected calls only
}

// InterfaceCallHistoryService defines the call history service interface
type InterfaceCallHistoryService interface {
	OpenCall(callerID string, departmentID uint, roomID string) (*models.CallHistory, error)
	CloseCall(roomID string, status models.CallHistoryStatus) (*models.CallHistory, error)
	GetAllCallHistory(page, pageSize int) ([]models.CallHistory, int64, error)
	GetCallHistoryByDepartment(departmentID uint, page, pageSize int) ([]models.CallHistory, int64, error)
	GetCallStatistics() (*CallStatistics, error)
}

// CallHistoryService records call outcomes. History rows are write-only from
// the call workflow; the relay never reads them back.
type CallHistoryService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  *RedisService
}

const callStatisticsCacheKey = "call_history:statistics"

// NewCallHistoryService creates a new call history service
func NewCallHistoryService(db *gorm.DB, cfg *config.Config, cache *RedisService) InterfaceCallHistoryService {
	return &CallHistoryService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

// 1 OpenCall records a new call offer. The row starts as missed and is
// upgraded by CloseCall when the call connects or is rejected.
func (s *CallHistoryService) OpenCall(callerID string, departmentID uint, roomID string) (*models.CallHistory, error) {
	record := models.CallHistory{
		CallerID:     callerID,
		DepartmentID: departmentID,
		RoomID:       roomID,
		Status:       models.CallStatusMissed,
		StartTime:    time.Now(),
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, err
	}
	s.invalidateStatistics()
	return &record, nil
}

// 2 CloseCall stamps the final status and end time on the newest open call in
// the given room
func (s *CallHistoryService) CloseCall(roomID string, status models.CallHistoryStatus) (*models.CallHistory, error) {
	var record models.CallHistory
	err := s.DB.Where("room_id = ? AND end_time IS NULL", roomID).
		Order("start_time DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallHistoryNotFound
		}
		return nil, err
	}

	now := time.Now()
	record.Status = status
	record.EndTime = &now
	if err := s.DB.Model(&record).Updates(map[string]interface{}{
		"status":   status,
		"end_time": now,
	}).Error; err != nil {
		return nil, err
	}

	s.invalidateStatistics()
	return &record, nil
}

// 3 GetAllCallHistory returns the call history with pagination, newest first
func (s *CallHistoryService) GetAllCallHistory(page, pageSize int) ([]models.CallHistory, int64, error) {
	var records []models.CallHistory
	var total int64

	if err := s.DB.Model(&models.CallHistory{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Preload("Department").
		Order("start_time DESC").
		Limit(pageSize).Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// 4 GetCallHistoryByDepartment returns one department's call history with
// pagination, newest first
func (s *CallHistoryService) GetCallHistoryByDepartment(departmentID uint, page, pageSize int) ([]models.CallHistory, int64, error) {
	var records []models.CallHistory
	var total int64

	if err := s.DB.Model(&models.CallHistory{}).
		Where("department_id = ?", departmentID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Where("department_id = ?", departmentID).
		Order("start_time DESC").
		Limit(pageSize).Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// 5 GetCallStatistics aggregates the call history
func (s *CallHistoryService) GetCallStatistics() (*CallStatistics, error) {
	if s.Cache.Enabled() {
		var cached CallStatistics
		if err := s.Cache.Get(callStatisticsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var stats CallStatistics

	if err := s.DB.Model(&models.CallHistory{}).Count(&stats.TotalCalls).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.CallHistory{}).
		Where("status = ?", models.CallStatusConnected).
		Count(&stats.ConnectedCalls).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.CallHistory{}).
		Where("status = ?", models.CallStatusMissed).
		Count(&stats.MissedCalls).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.CallHistory{}).
		Where("status = ?", models.CallStatusRejected).
		Count(&stats.RejectedCalls).Error; err != nil {
		return nil, err
	}

	if stats.ConnectedCalls > 0 {
		var result struct {
			AvgSeconds float64
		}
		// SQLite-specific duration aggregate
		if err := s.DB.Model(&models.CallHistory{}).
			Where("status = ? AND end_time IS NOT NULL", models.CallStatusConnected).
			Select("AVG(strftime('%s', end_time) - strftime('%s', start_time)) as avg_seconds").
			Scan(&result).Error; err != nil {
			return nil, err
		}
		stats.AverageDuration = int(result.AvgSeconds)
	}

	if s.Cache.Enabled() {
		if err := s.Cache.Set(callStatisticsCacheKey, stats, callStatisticsCacheTTL); err != nil {
			config.Warning("failed to cache call statistics: %v", err)
		}
	}

	return &stats, nil
}

func (s *CallHistoryService) invalidateStatistics() {
	if !s.Cache.Enabled() {
		return
	}
	if err := s.Cache.Delete(callStatisticsCacheKey); err != nil {
		config.Warning("failed to invalidate call statistics cache: %v", err)
	}
}
