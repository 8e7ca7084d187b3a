package database

import (
	"database/sql"

	"github.com/rehbar-pk/directory-api/model"
	queryHelper "github.com/rehbar-pk/directory-api/utils/query"
)

func (s *PostgreSQLStore) GetInquiries() ([]model.Inquiry, error) {
	query := `
		SELECT id, name, email, subject, message, status, createdat FROM inquiry ORDER BY id DESC;
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inquiries := []model.Inquiry{}
	for rows.Next() {
		inquiry, err := scanIntoInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, *inquiry)
	}

	return inquiries, rows.Err()
}

func (s *PostgreSQLStore) AddInquiry(inquiry model.Inquiry) error {
	query := `INSERT INTO inquiry(name, email, subject, message, status) VALUES($1, $2, $3, $4, 'new');`

	_, err := s.db.Exec(query, inquiry.Name, inquiry.Email, inquiry.Subject, inquiry.Message)
	return err
}

func (s *PostgreSQLStore) UpdateInquiry(inquiry model.Inquiry) error {
	query, values := queryHelper.UpdateQueryBuilder("inquiry", "id", inquiry.ID, inquiry)

	_, err := s.db.Exec(query, values...)
	return err
}

func (s *PostgreSQLStore) DeleteInquiry(id int64) error {
	query := "DELETE FROM inquiry WHERE id=$1"

	_, err := s.db.Exec(query, id)
	return err
}

func scanIntoInquiry(rows *sql.Rows) (*model.Inquiry, error) {
	inquiry := new(model.Inquiry)
	err := rows.Scan(
		&inquiry.ID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Subject,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inquiry, nil
}
