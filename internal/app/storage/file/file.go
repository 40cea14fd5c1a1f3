package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/AlenaMolokova/passgen/internal/app/models"
	"github.com/sirupsen/logrus"
)

// FileStorage представляет журнал генераций паролей в файловой системе.
// Записи хранятся в JSON-формате в указанном файле и поддерживаются
// в памяти для быстрого доступа. Сами пароли в журнал не попадают.
type FileStorage struct {
	filePath  string
	records   []models.HistoryRecord
	limit     int
	mu        sync.RWMutex
	isDirty   bool
	flushLock sync.Mutex
	pending   sync.WaitGroup
}

// NewFileStorage создаёт и инициализирует файловый журнал генераций.
// Если указанный файл существует, записи загружаются из него.
// Если файл не существует, создаётся пустой журнал.
//
// Параметры:
//   - filePath: путь к файлу для хранения данных
//   - limit: максимальное число хранимых записей, старые вытесняются
//
// Возвращает:
//   - указатель на FileStorage при успешной инициализации
//   - ошибку, если не удалось открыть или десериализовать файл
func NewFileStorage(filePath string, limit int) (*FileStorage, error) {
	if limit <= 0 {
		limit = 100
	}
	fs := &FileStorage{
		filePath: filePath,
		records:  make([]models.HistoryRecord, 0, limit),
		limit:    limit,
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fs, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return fs, nil
	}

	var entries []models.HistoryRecord
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	fs.records = append(fs.records, entries...)

	return fs, nil
}

// SaveRecord добавляет запись в журнал.
// Сохранение в файл происходит асинхронно.
//
// Параметры:
//   - ctx: контекст выполнения операции
//   - record: запись о завершённой генерации
//
// Возвращает:
//   - ошибку (в текущей реализации всегда nil)
func (fs *FileStorage) SaveRecord(ctx context.Context, record models.HistoryRecord) error {
	fs.mu.Lock()
	if len(fs.records) == fs.limit {
		copy(fs.records, fs.records[1:])
		fs.records = fs.records[:len(fs.records)-1]
	}
	fs.records = append(fs.records, record)
	fs.isDirty = true
	fs.mu.Unlock()

	fs.pending.Add(1)
	go func() {
		defer fs.pending.Done()
		fs.scheduleSave()
	}()
	return nil
}

// ListRecords возвращает до limit последних записей, начиная с самой новой.
// При limit <= 0 возвращаются все записи.
func (fs *FileStorage) ListRecords(ctx context.Context, limit int) ([]models.HistoryRecord, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if limit <= 0 || limit > len(fs.records) {
		limit = len(fs.records)
	}
	result := make([]models.HistoryRecord, 0, limit)
	for i := len(fs.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, fs.records[i])
	}
	return result, nil
}

// Ping проверяет, что каталог журнала по-прежнему существует.
func (fs *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(filepath.Dir(fs.filePath))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("history path parent is not a directory")
	}
	return nil
}

// Close дожидается фоновых сохранений и записывает журнал на диск.
func (fs *FileStorage) Close() error {
	fs.pending.Wait()
	fs.flushLock.Lock()
	defer fs.flushLock.Unlock()

	fs.mu.RLock()
	dirty := fs.isDirty
	fs.mu.RUnlock()
	if !dirty {
		return nil
	}
	return fs.saveToFile()
}

func (fs *FileStorage) scheduleSave() {
	fs.flushLock.Lock()
	defer fs.flushLock.Unlock()

	fs.mu.RLock()
	dirty := fs.isDirty
	fs.mu.RUnlock()

	if !dirty {
		return
	}

	if err := fs.saveToFile(); err != nil {
		logrus.WithError(err).WithField("file", fs.filePath).Error("Failed to write generation history")
	}
}

func (fs *FileStorage) saveToFile() error {
	tmpFile := fs.filePath + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(file)

	fs.mu.Lock()
	entries := make([]models.HistoryRecord, len(fs.records))
	copy(entries, fs.records)
	fs.isDirty = false
	fs.mu.Unlock()

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		file.Close()
		fs.markDirty()
		return err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		fs.markDirty()
		return err
	}

	if err := file.Close(); err != nil {
		fs.markDirty()
		return err
	}

	if err := os.Rename(tmpFile, fs.filePath); err != nil {
		fs.markDirty()
		return err
	}

	return nil
}

func (fs *FileStorage) markDirty() {
	fs.mu.Lock()
	fs.isDirty = true
	fs.mu.Unlock()
}
