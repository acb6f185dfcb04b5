package sqlinline

// Schema is applied by infra.ApplySchema. Statements are idempotent.
const Schema = `
create table if not exists event_log (
  seq            bigint generated always as identity primary key,
  id             uuid not null unique,
  request_id     text not null default '',
  prompt         text not null,
  revised_prompt text not null default '',
  created        bigint not null,
  logged_at      timestamptz not null default now()
);

create index if not exists event_log_created_idx on event_log (created, seq);

create table if not exists option_catalog (
  category text not null,
  position int  not null,
  name     text not null
);

create index if not exists option_catalog_category_idx on option_catalog (category, position);
`
