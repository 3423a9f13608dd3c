package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/vidshelf/internal/domain/channel"
	"github.com/khoahotran/vidshelf/pkg/apperror"
	"github.com/khoahotran/vidshelf/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const uniqueViolation = "23505"

var channelColumns = []string{
	"c.id", "c.owner_id", "c.title", "c.slug", "c.description", "c.is_public", "c.created_at", "c.updated_at",
}

type postgresChannelRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

// NewPostgresChannelRepo returns a channel store that also satisfies
// channel.AtomicCreator.
func NewPostgresChannelRepo(db *pgxpool.Pool, log logger.Logger) channel.Repository {
	return &postgresChannelRepo{db: db, logger: log}
}

func scanChannel(row pgx.Row) (*channel.Channel, error) {
	c := &channel.Channel{}
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Title,
		&c.Slug,
		&c.Description,
		&c.IsPublic,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("channel", "")
		}
		return nil, apperror.NewInternal("failed to scan channel row", err)
	}
	return c, nil
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertChannel(ctx context.Context, db execer, c *channel.Channel) error {
	query := `
		INSERT INTO channels (id, owner_id, title, slug, description, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := db.Exec(ctx, query, c.ID, c.OwnerID, c.Title, c.Slug, c.Description, c.IsPublic, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("channel", "slug", c.Slug)
		}
		return apperror.NewInternal("failed to save channel", err)
	}
	return nil
}

func insertMember(ctx context.Context, db execer, m *channel.Membership) error {
	query := `
		INSERT INTO channel_members (channel_id, principal_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := db.Exec(ctx, query, m.ChannelID, m.PrincipalID, string(m.Role), m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperror.NewConflict("membership", "principal_id", m.PrincipalID.String())
		}
		return apperror.NewInternal("failed to save channel member", err)
	}
	return nil
}

func (r *postgresChannelRepo) Save(ctx context.Context, c *channel.Channel) error {
	return insertChannel(ctx, r.db, c)
}

// CreateWithOwner inserts the channel and its owner row in one transaction.
func (r *postgresChannelRepo) CreateWithOwner(ctx context.Context, c *channel.Channel, owner *channel.Membership) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertChannel(ctx, tx, c); err != nil {
			return err
		}
		return insertMember(ctx, tx, owner)
	})
}

func (r *postgresChannelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return apperror.NewInternal("failed to delete channel", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("channel", id.String())
	}
	return nil
}

func (r *postgresChannelRepo) FindBySlug(ctx context.Context, slug string) (*channel.Channel, error) {
	return r.findOne(ctx, sq.Eq{"c.slug": slug})
}

func (r *postgresChannelRepo) FindPublicBySlug(ctx context.Context, slug string) (*channel.Channel, error) {
	return r.findOne(ctx, sq.Eq{"c.slug": slug, "c.is_public": true})
}

func (r *postgresChannelRepo) findOne(ctx context.Context, where sq.Eq) (*channel.Channel, error) {
	query, args, err := psql.Select(channelColumns...).From("channels c").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find channel query", err)
	}
	return scanChannel(r.db.QueryRow(ctx, query, args...))
}

type postgresMemberRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresMemberRepo(db *pgxpool.Pool, log logger.Logger) channel.MemberRepository {
	return &postgresMemberRepo{db: db, logger: log}
}

func (r *postgresMemberRepo) Save(ctx context.Context, m *channel.Membership) error {
	return insertMember(ctx, r.db, m)
}

func (r *postgresMemberRepo) Find(ctx context.Context, channelID, principalID uuid.UUID) (*channel.Membership, error) {
	query, args, err := psql.Select("channel_id", "principal_id", "role", "created_at").
		From("channel_members").
		Where(sq.Eq{"channel_id": channelID, "principal_id": principalID}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find member query", err)
	}

	m := &channel.Membership{}
	var role string
	err = r.db.QueryRow(ctx, query, args...).Scan(&m.ChannelID, &m.PrincipalID, &role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("membership", channelID.String())
		}
		return nil, apperror.NewInternal("failed to scan channel member row", err)
	}
	m.Role = channel.Role(role)
	return m, nil
}

func (r *postgresMemberRepo) ListForPrincipal(ctx context.Context, principalID uuid.UUID) ([]channel.MemberChannel, error) {
	query, args, err := psql.Select(append(channelColumns, "m.role")...).
		From("channel_members m").
		Join("channels c ON c.id = m.channel_id").
		Where(sq.Eq{"m.principal_id": principalID}).
		OrderBy("c.slug ASC").
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list channels by member query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query channels by member", err)
	}
	defer rows.Close()

	out := make([]channel.MemberChannel, 0)
	for rows.Next() {
		c := &channel.Channel{}
		var role string
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Slug, &c.Description, &c.IsPublic, &c.CreatedAt, &c.UpdatedAt, &role); err != nil {
			return nil, apperror.NewInternal("failed to scan member channel row", err)
		}
		out = append(out, channel.MemberChannel{Channel: c, Role: channel.Role(role)})
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating member channel rows", err)
	}
	return out, nil
}
