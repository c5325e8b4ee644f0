// schema.go

package db

import "context"

// CreateAllTablesSQL 创建所有表的SQL语句
const CreateAllTablesSQL = `
-- 技能定义表，params 保存技能专属数值
CREATE TABLE IF NOT EXISTS skill_definitions (
    skill_type VARCHAR(32) PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    description TEXT,
    duration DOUBLE PRECISION NOT NULL CHECK (duration > 0),
    cooldown DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (cooldown >= 0),
    params JSONB NOT NULL DEFAULT '{}'::jsonb,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);
`

// DropAllTablesSQL 删除所有表
const DropAllTablesSQL = `
DROP TABLE IF EXISTS skill_definitions CASCADE;
`

// InitSchema 初始化所有数据库表
func InitSchema(ctx context.Context) error {
	_, err := DB.ExecContext(ctx, CreateAllTablesSQL)
	return err
}

// ResetSchema 删除所有表
func ResetSchema(ctx context.Context) error {
	_, err := DB.ExecContext(ctx, DropAllTablesSQL)
	return err
}
