package sqlinline

const QSelectOptionsByCategory = `--sql e2397b47-f380-421b-963f-6a21a1e08bcf
select o.name
from option_catalog o
where o.category = $1::text
order by o.position asc;`

// QReseedOptions replaces one category in a single statement.
const QReseedOptions = `--sql 660c4f98-4451-4781-8ec0-ced90e77254f
with
purge as (
  delete from option_catalog
  where category = $1::text
)
insert into option_catalog (category, position, name)
select
  $1::text,
  t.ord::int,
  t.name
from unnest($2::text[]) with ordinality as t(name, ord);`
