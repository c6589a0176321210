package db

import (
	"context"
	"errors"
	"time"

	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/theme"
	appLogger "github.com/prasetyowira/qrstudio/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteRepository implements theme.Repository on a local SQLite file
type SQLiteRepository struct {
	db *gorm.DB
}

// PreferenceModel is the GORM model for one stored preference
type PreferenceModel struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct {
	slow time.Duration
}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations. Missing rows are expected for an unset
// preference and are not reported as errors.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	data := map[string]interface{}{
		constant.DataElapsed: elapsed.String(),
		constant.DataRows:    rows,
		constant.DataSQL:     sql,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: data,
		})
	case l.slow > 0 && elapsed > l.slow:
		appLogger.CtxWarn(ctx, "Slow SQL query", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Data:            data,
		})
	default:
		appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Data:            data,
		})
	}
}

// NewSQLiteRepository opens (creating if needed) the preferences database
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	ctx := appLogger.NewRequestContext()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{slow: 200 * time.Millisecond},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	if err := db.AutoMigrate(&PreferenceModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteRepository{db: db}, nil
}

// Find returns the value stored under key, or theme.ErrNotFound
func (r *SQLiteRepository) Find(ctx context.Context, key string) (string, error) {
	var model PreferenceModel
	err := r.db.WithContext(ctx).Where(&PreferenceModel{Key: key}).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		appLogger.CtxDebug(ctx, "Preference not set", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindTheme,
		})
		return "", theme.ErrNotFound
	}
	if err != nil {
		appLogger.CtxError(ctx, "Failed to look up preference", appLogger.LoggerInfo{
			ContextFunction: constant.CtxFindTheme,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return "", err
	}
	return model.Value, nil
}

// Save inserts or replaces the value stored under key
func (r *SQLiteRepository) Save(ctx context.Context, key, value string) error {
	model := PreferenceModel{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		appLogger.CtxError(ctx, "Failed to save preference", appLogger.LoggerInfo{
			ContextFunction: constant.CtxSaveTheme,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBUpsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxDebug(ctx, "Preference saved", appLogger.LoggerInfo{
		ContextFunction: constant.CtxSaveTheme,
		Data: map[string]interface{}{
			constant.DataTheme: value,
		},
	})
	return nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
