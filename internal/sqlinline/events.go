package sqlinline

const QInsertEventLog = `--sql 26e6e8ee-289d-4311-80b2-107138cef347
insert into event_log (
  id,
  request_id,
  prompt,
  revised_prompt,
  created,
  logged_at
)
values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::text,
  $5::bigint,
  $6::timestamptz
);`

// QSelectEventByCreated returns the earliest entry when several share a timestamp.
const QSelectEventByCreated = `--sql 1cacea23-4361-444c-b699-812030dea87d
select
  e.id::text,
  e.request_id,
  e.prompt,
  e.revised_prompt,
  e.created,
  e.logged_at
from event_log e
where e.created = $1::bigint
order by e.seq asc
limit 1;`
