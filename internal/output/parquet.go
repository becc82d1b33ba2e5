package output

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"golfsim/internal/cloudwriter"
	"golfsim/internal/models"
)

// ParquetOutput writes one parquet file per topic, to the local filesystem
// or through a cloud writer when the configured destination is not local.
type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	writerMutexes      map[string]*sync.Mutex
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(cfg *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath:      cfg.OutputPath,
		folder:        cfg.OutputFolder,
		writers:       make(map[string]*writer.ParquetWriter),
		writerMutexes: make(map[string]*sync.Mutex),
		files:         make(map[string]source.ParquetFile),
	}

	if cfg.OutputDestination != "" && cfg.OutputDestination != "local" {
		if cfg.CloudStorage.Provider != "s3" {
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
		factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		if cfg.CloudStorage.Prefix != "" {
			factory = factory.WithPrefix(cfg.CloudStorage.Prefix)
		}
		p.cloudWriterFactory = factory
		p.cloudBucketName = cfg.CloudStorage.BucketName
	}

	// clean up parquet files left over from a previous run
	p.cleanup()

	return p, nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	row, err := rowForTopic(topic, msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	pw, ok := p.writers[topic]
	if !ok {
		pw, err = p.createNewWriter(topic)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}
	writerMutex := p.writerMutexes[topic]
	p.mu.Unlock()

	writerMutex.Lock()
	defer writerMutex.Unlock()

	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write %s row: %w", topic, err)
	}
	return nil
}

// rowForTopic decodes a serialised record into the typed row the topic's
// parquet schema was built from.
func rowForTopic(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case "activity_events":
		var row ActivityEventRow
		if err := json.Unmarshal(msg, &row); err != nil {
			return nil, err
		}
		return row, nil
	case "delivery_stats":
		var row DeliveryStatsRow
		if err := json.Unmarshal(msg, &row); err != nil {
			return nil, err
		}
		return row, nil
	case "failed_orders":
		var row FailedOrderRow
		if err := json.Unmarshal(msg, &row); err != nil {
			return nil, err
		}
		return row, nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}

func (p *ParquetOutput) createNewWriter(topic string) (*writer.ParquetWriter, error) {
	var fw source.ParquetFile
	var err error
	if p.cloudWriterFactory != nil {
		objectPath := filepath.Join(p.folder, topic+".parquet")
		cw, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cw)
	} else {
		dir := filepath.Join(p.basePath, p.folder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, err
		}
		fw, err = local.NewLocalFileWriter(filepath.Join(dir, topic+".parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	sc, err := GetSchema(topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, nil, 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.SchemaHandler = sc

	p.writers[topic] = pw
	p.writerMutexes[topic] = &sync.Mutex{}
	p.files[topic] = fw

	return pw, nil
}

func (p *ParquetOutput) cleanup() {
	fullPath := filepath.Join(p.basePath, p.folder)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return
	}
	err := filepath.Walk(fullPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".parquet" {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		log.Printf("error cleaning up parquet files: %v", err)
	}
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for topic, pw := range p.writers {
		if pw == nil {
			continue
		}
		if mutex, ok := p.writerMutexes[topic]; ok {
			mutex.Lock()
			if err := pw.WriteStop(); err != nil {
				lastErr = err
				log.Printf("error closing writer for topic %s: %v", topic, err)
			}
			if f, ok := p.files[topic]; ok {
				if err := f.Close(); err != nil {
					lastErr = err
					log.Printf("error closing file for topic %s: %v", topic, err)
				}
			}
			mutex.Unlock()
		}
	}
	return lastErr
}

// CloudParquetFile adapts a CloudWriter to the parquet source interface.
// Cloud objects are write-once streams, so reads and seeks from the end
// are not supported.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	// the instance is already set up for writing
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	// objects are created implicitly on first write
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	return c.cloudWriter.Write(p)
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
