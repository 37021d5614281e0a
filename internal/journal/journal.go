package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"orderbot/internal/config"
	"orderbot/internal/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at   TEXT    NOT NULL,
	symbol       TEXT    NOT NULL,
	side         TEXT    NOT NULL,
	type         TEXT    NOT NULL,
	quantity     REAL    NOT NULL,
	price        REAL,
	stop_price   REAL,
	slice_index  INTEGER NOT NULL DEFAULT 0,
	order_id     TEXT,
	success      INTEGER NOT NULL,
	error        TEXT,
	raw_response TEXT
);
`

// Journal 以 SQLite 逐笔记录下单请求的最终结果，便于跨运行复盘。
type Journal struct {
	db *sql.DB
}

// Entry 为流水中的一行。
type Entry struct {
	CreatedAt  time.Time
	Symbol     string
	Side       string
	Type       string
	Quantity   float64
	Price      float64
	StopPrice  float64
	SliceIndex int
	OrderID    string
	Success    bool
	Error      string
}

// Open 根据配置初始化订单流水库并建表。
func Open(cfg config.DatabaseConfig) (*Journal, error) {
	dsn := cfg.Path
	if cfg.InMemory {
		dsn = ":memory:"
	} else {
		if err := ensureDir(filepath.Dir(cfg.Path)); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", dsn))
	if err != nil {
		return nil, fmt.Errorf("打开订单流水库失败: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("初始化订单流水表失败: %w", err)
	}

	return &Journal{db: conn}, nil
}

// Record 落一行流水。sliceIndex 从 1 起计，单笔订单记 0。
func (j *Journal) Record(intent order.Intent, sliceIndex int, result order.Result) error {
	_, err := j.db.Exec(
		`INSERT INTO orders
			(created_at, symbol, side, type, quantity, price, stop_price, slice_index, order_id, success, error, raw_response)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		intent.Symbol,
		string(intent.Side),
		string(intent.Type),
		intent.Quantity,
		intent.Price,
		intent.StopPrice,
		sliceIndex,
		result.OrderID,
		boolToInt(result.Success),
		result.Err,
		string(result.Raw),
	)
	if err != nil {
		return fmt.Errorf("写入订单流水失败: %w", err)
	}
	return nil
}

// Recent 按时间倒序返回最近 limit 行流水。
func (j *Journal) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(
		`SELECT created_at, symbol, side, type, quantity, price, stop_price, slice_index, order_id, success, error
		 FROM orders ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("读取订单流水失败: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			createdAt string
			success   int
		)
		if err := rows.Scan(&createdAt, &e.Symbol, &e.Side, &e.Type, &e.Quantity,
			&e.Price, &e.StopPrice, &e.SliceIndex, &e.OrderID, &success, &e.Error); err != nil {
			return nil, fmt.Errorf("解析订单流水失败: %w", err)
		}
		e.Success = success != 0
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历订单流水失败: %w", err)
	}

	return entries, nil
}

// Close 关闭流水库连接。
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("创建目录 %q 失败: %w", path, err)
	}
	return nil
}
