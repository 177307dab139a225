package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-roster/internal/platform/db/postgres"
)

const undefinedTableCode = "42P01"

const loadAllEmployeesQuery = `
        SELECT id,
               first_name,
               last_name,
               date_of_birth,
               date_of_employment,
               phone_number,
               email,
               department,
               position
          FROM employees
         ORDER BY created_at ASC, id ASC
    `

// EmployeeRepository は PostgreSQL の employees テーブルを社員データセットとして読み込みます。
// 書き込みは行いません。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// LoadAll は登録順にすべての社員を取得します。
func (r *EmployeeRepository) LoadAll(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.pool.Query(ctx, loadAllEmployeesQuery)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	if err := employee.ValidateDataset(employees); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	if err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.DateOfBirth,
		&e.DateOfEmployment,
		&e.PhoneNumber,
		&e.Email,
		&e.Department,
		&e.Position,
	); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
		return fmt.Errorf("postgres: employees table missing, run migrations: %w", employee.ErrDatasetMalformed)
	}

	return fmt.Errorf("postgres: load employees: %w", err)
}
