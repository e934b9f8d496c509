package services

import (
	"errors"

	"gorm.io/gorm"

	"portero-http-service/config"
	"portero-http-service/models"
	"portero-http-service/utils"
)

// Sentinel errors surfaced to the controllers
var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDepartmentExists   = errors.New("a department with that name already exists")
	ErrInvalidStatus      = errors.New("invalid department status")
	ErrDepartmentLimit    = errors.New("maximum number of departments reached")
)

// InterfaceDepartmentService defines the department store contract
type InterfaceDepartmentService interface {
	GetAllDepartments() ([]models.Department, error)
	GetDepartmentByID(id uint) (*models.Department, error)
	GetDepartmentByName(name string) (*models.Department, error)
	CreateDepartment(name, password string) (*models.Department, error)
	UpdateDepartmentStatus(id uint, status models.DepartmentStatus) (*models.Department, error)
	UpdateDepartmentProfile(id uint, name, password string) (*models.Department, error)
	SetIncomingCall(id uint, from, room string) (*models.Department, error)
	ClearIncomingCall(id uint) (*models.Department, error)
	CountDepartments() (int64, error)
}

// DepartmentService provides department persistence. Every mutation notifies
// the change notifier with the post-commit row; a notifier failure never rolls
// back or fails the write.
type DepartmentService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceChangeNotifier
	Cache    *RedisService
}

const departmentsCacheKey = "departments:all"

// NewDepartmentService creates a new department service
func NewDepartmentService(db *gorm.DB, cfg *config.Config, notifier InterfaceChangeNotifier, cache *RedisService) InterfaceDepartmentService {
	return &DepartmentService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
		Cache:    cache,
	}
}

// 1 GetAllDepartments returns every department ordered by name
func (s *DepartmentService) GetAllDepartments() ([]models.Department, error) {
	var departments []models.Department

	if s.Cache.Enabled() {
		if err := s.Cache.Get(departmentsCacheKey, &departments); err == nil {
			return departments, nil
		}
	}

	if err := s.DB.Order("name").Find(&departments).Error; err != nil {
		return nil, err
	}

	if s.Cache.Enabled() {
		if err := s.Cache.Set(departmentsCacheKey, departments, departmentsCacheTTL); err != nil {
			config.Warning("failed to cache department list: %v", err)
		}
	}

	return departments, nil
}

// 2 GetDepartmentByID returns one department by ID
func (s *DepartmentService) GetDepartmentByID(id uint) (*models.Department, error) {
	var department models.Department
	if err := s.DB.First(&department, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &department, nil
}

// 3 GetDepartmentByName returns one department by its unique name
func (s *DepartmentService) GetDepartmentByName(name string) (*models.Department, error) {
	var department models.Department
	if err := s.DB.Where("name = ?", name).First(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}
	return &department, nil
}

// 4 CreateDepartment registers a new department with an Available status
func (s *DepartmentService) CreateDepartment(name, password string) (*models.Department, error) {
	if _, err := s.GetDepartmentByName(name); err == nil {
		return nil, ErrDepartmentExists
	} else if !errors.Is(err, ErrDepartmentNotFound) {
		return nil, err
	}

	if s.Config.MaxDepartments > 0 {
		count, err := s.CountDepartments()
		if err != nil {
			return nil, err
		}
		if count >= int64(s.Config.MaxDepartments) {
			return nil, ErrDepartmentLimit
		}
	}

	department := models.Department{
		Name:     name,
		Password: password,
		Status:   models.DepartmentStatusAvailable,
	}
	if err := s.DB.Create(&department).Error; err != nil {
		return nil, err
	}

	s.invalidateCache()
	s.notify(models.OperationInsert, &department)
	return &department, nil
}

// 5 UpdateDepartmentStatus sets a department's availability status
func (s *DepartmentService) UpdateDepartmentStatus(id uint, status models.DepartmentStatus) (*models.Department, error) {
	if !models.ValidDepartmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	if _, err := s.GetDepartmentByID(id); err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Department{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, err
	}

	return s.finishMutation(id)
}

// 6 UpdateDepartmentProfile updates a department's name and/or password
func (s *DepartmentService) UpdateDepartmentProfile(id uint, name, password string) (*models.Department, error) {
	department, err := s.GetDepartmentByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" && name != department.Name {
		existing, err := s.GetDepartmentByName(name)
		if err != nil && !errors.Is(err, ErrDepartmentNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrDepartmentExists
		}
	}

	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if password != "" {
		hashed, err := utils.HashPassword(password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if len(updates) == 0 {
		return department, nil
	}

	if err := s.DB.Model(&models.Department{}).Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.finishMutation(id)
}

// 7 SetIncomingCall pins a call offer to the department row. Concurrent offers
// race; last write wins.
func (s *DepartmentService) SetIncomingCall(id uint, from, room string) (*models.Department, error) {
	if _, err := s.GetDepartmentByID(id); err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Department{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"incoming_call_from": from,
			"incoming_call_room": room,
		}).Error; err != nil {
		return nil, err
	}

	return s.finishMutation(id)
}

// 8 ClearIncomingCall removes the call offer from the department row. Clearing
// an already-clear row is not an error and still notifies.
func (s *DepartmentService) ClearIncomingCall(id uint) (*models.Department, error) {
	if _, err := s.GetDepartmentByID(id); err != nil {
		return nil, err
	}

	if err := s.DB.Model(&models.Department{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"incoming_call_from": nil,
			"incoming_call_room": nil,
		}).Error; err != nil {
		return nil, err
	}

	return s.finishMutation(id)
}

// 9 CountDepartments returns the total number of departments
func (s *DepartmentService) CountDepartments() (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Department{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// finishMutation reloads the row and fires the update notification
func (s *DepartmentService) finishMutation(id uint) (*models.Department, error) {
	updated, err := s.GetDepartmentByID(id)
	if err != nil {
		return nil, err
	}
	s.invalidateCache()
	s.notify(models.OperationUpdate, updated)
	return updated, nil
}

func (s *DepartmentService) notify(operation models.ChangeOperation, record *models.Department) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.NotifyDepartmentChange(operation, record)
}

func (s *DepartmentService) invalidateCache() {
	if !s.Cache.Enabled() {
		return
	}
	if err := s.Cache.Delete(departmentsCacheKey); err != nil {
		config.Warning("failed to invalidate department cache: %v", err)
	}
}
