package repository

// advocateSchema bootstraps the advocates table. created_at keeps millisecond
// precision so that cursors encoded in epoch milliseconds compare exactly.
const advocateSchema = `
CREATE TABLE IF NOT EXISTS advocates (
    id BIGSERIAL PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    city TEXT NOT NULL,
    degree TEXT NOT NULL,
    specialties TEXT[] NOT NULL DEFAULT '{}',
    years_of_experience INTEGER NOT NULL CHECK (years_of_experience >= 0),
    phone_number BIGINT NOT NULL,
    created_at TIMESTAMPTZ(3) NOT NULL DEFAULT now()
);

CREATE OR REPLACE FUNCTION advocate_document(first_name TEXT, last_name TEXT, city TEXT, degree TEXT, specialties TEXT[])
RETURNS tsvector
LANGUAGE sql IMMUTABLE PARALLEL SAFE
AS $$
    SELECT to_tsvector('english'::regconfig,
        coalesce(first_name, '') || ' ' || coalesce(last_name, '') || ' ' ||
        coalesce(city, '') || ' ' || coalesce(degree, '') || ' ' ||
        coalesce(array_to_string(specialties, ' '), ''))
$$;

CREATE INDEX IF NOT EXISTS advocates_document_idx
    ON advocates USING GIN (advocate_document(first_name, last_name, city, degree, specialties));

CREATE INDEX IF NOT EXISTS advocates_keyset_idx
    ON advocates (created_at DESC, id DESC);
`
